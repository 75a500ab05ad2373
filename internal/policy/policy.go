// Package policy decides whether a caller may perform a request method on a
// record, and which methods are switched off per resource type.
package policy

import (
	"net/http"

	"github.com/atinyakov/taskboard/internal/identity"
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	// Deny rejects the request.
	Deny Decision = iota
	// Allow permits the request.
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// ReadOnly reports whether method never alters state.
func ReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// Decide applies the ownership rule: read-only methods are always allowed,
// any other method only when the caller owns the target record.
//
// Decide assumes the caller already passed the authentication gate; an
// anonymous caller never owns anything and so is denied every write.
func Decide(caller identity.Caller, method string, ownerID int64) Decision {
	if ReadOnly(method) {
		return Allow
	}
	if caller.Authenticated() && ownerID == caller.ID {
		return Allow
	}
	return Deny
}
