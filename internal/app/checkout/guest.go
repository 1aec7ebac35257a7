package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10,15}$`)
)

// GuestDetails identify an unauthenticated guest on the checkout form.
type GuestDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// FieldError points at the form field the user has to correct.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("checkout: invalid %s: %s", e.Field, e.Reason)
}

func (g GuestDetails) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return &FieldError{Field: "name", Reason: "must not be empty"}
	}
	if !emailPattern.MatchString(g.Email) {
		return &FieldError{Field: "email", Reason: "must be a valid email address"}
	}
	if !phonePattern.MatchString(g.Phone) {
		return &FieldError{Field: "phone", Reason: "must be 10 to 15 digits"}
	}
	return nil
}
