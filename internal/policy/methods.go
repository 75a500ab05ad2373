package policy

import (
	"fmt"
	"net/http"
)

// Resource names a record type exposed over the API.
type Resource string

const (
	Users      Resource = "users"
	Profiles   Resource = "profiles"
	Categories Resource = "categories"
	Tasks      Resource = "tasks"
)

// disabled lists the methods that are never permitted on a resource,
// whoever the caller is.
var disabled = map[Resource]map[string]bool{
	Profiles: {
		http.MethodDelete: true,
		http.MethodPatch:  true,
	},
	Categories: {
		http.MethodPut:    true,
		http.MethodPatch:  true,
		http.MethodDelete: true,
	},
	Tasks: {
		http.MethodPatch: true,
	},
}

// MethodNotAllowedError is returned for a method switched off on a resource.
type MethodNotAllowedError struct {
	Resource Resource
	Method   string
}

func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("%s method is not allowed", e.Method)
}

// Disabled reports whether method is switched off for r.
func Disabled(r Resource, method string) bool {
	return disabled[r][method]
}

// CheckMethod returns a *MethodNotAllowedError when method is switched off
// for r. It must run before any lookup or ownership decision.
func CheckMethod(r Resource, method string) error {
	if Disabled(r, method) {
		return &MethodNotAllowedError{Resource: r, Method: method}
	}
	return nil
}
