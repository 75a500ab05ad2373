// Package validator collects field-level validation failures.
package validator

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Errors maps a field name to the reason it was rejected.
type Errors map[string]string

// New returns an empty Errors.
func New() Errors {
	return make(Errors)
}

// HasErrors reports whether any field failed.
func (v Errors) HasErrors() bool {
	return len(v) > 0
}

// Add records message for field, keeping the first message per field.
func (v Errors) Add(field, message string) {
	if _, ok := v[field]; !ok {
		v[field] = message
	}
}

// Err returns v as an error, or nil when no field failed.
func (v Errors) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v
}

func (v Errors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, v[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Required records an error when value is blank.
func (v Errors) Required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.Add(field, "This field is required.")
		return false
	}
	return true
}

// MaxLength records an error when value has more than n characters.
func (v Errors) MaxLength(field, value string, n int) bool {
	if utf8.RuneCountInString(value) > n {
		v.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters.", n))
		return false
	}
	return true
}
