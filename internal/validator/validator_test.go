package validator

import (
	"errors"
	"strings"
	"testing"
)

func TestErrors(t *testing.T) {
	v := New()
	if v.Err() != nil {
		t.Fatalf("empty Errors.Err() = %v; want nil", v.Err())
	}

	v.Required("task", "   ")
	v.MaxLength("task", strings.Repeat("x", 200), 100)
	v.MaxLength("criteria", "ünïcode", 7)
	v.MaxLength("item", strings.Repeat("é", 101), 100)

	if got := v["task"]; got != "This field is required." {
		t.Errorf("task message = %q; want first message kept", got)
	}
	if _, ok := v["criteria"]; ok {
		t.Error("criteria counted bytes instead of runes")
	}
	if !strings.Contains(v["item"], "100 characters") {
		t.Errorf("item message = %q", v["item"])
	}

	var verr Errors
	if !errors.As(v.Err(), &verr) {
		t.Fatal("Err() is not an Errors")
	}
	if want := "validation failed: item: "; !strings.HasPrefix(verr.Error(), want) {
		t.Errorf("Error() = %q; want prefix %q", verr.Error(), want)
	}
}
