package park

import (
	"errors"
	"strings"
)

// ErrNotFound is returned when a park code matches no park
var ErrNotFound = errors.New("park not found")

// ValidationError reports malformed filter parameters
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "invalid parameters: " + strings.Join(e.Details, "; ")
}

// validator collects parameter problems before any query runs
type validator struct {
	details []string
}

func (v *validator) check(ok bool, detail string) {
	if !ok {
		v.details = append(v.details, detail)
	}
}

func (v *validator) nonNegative(name string, n *int) {
	if n != nil {
		v.check(*n >= 0, name+" must be a non-negative integer")
	}
}

func (v *validator) positive(name string, n *int) {
	if n != nil {
		v.check(*n >= 1, name+" must be at least 1")
	}
}

func (v *validator) year(y *int) {
	if y != nil {
		v.check(*y >= 1000 && *y <= 9999, "year must be between 1000 and 9999")
	}
}

func (v *validator) err() error {
	if len(v.details) == 0 {
		return nil
	}
	return &ValidationError{Details: v.details}
}
