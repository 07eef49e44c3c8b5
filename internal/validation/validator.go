package validation

import (
	"regexp"
	"strings"

	"github.com/gallahphu-bit/atlasyield/internal/models"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validator collects field errors keyed by field name.
type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: map[string]string{}}
}

func (v *Validator) Valid() bool {
	return len(v.Errors) == 0
}

func (v *Validator) Check(ok bool, field, message string) {
	if !ok {
		if _, exists := v.Errors[field]; !exists {
			v.Errors[field] = message
		}
	}
}

// First returns one error message, for handlers that report a single failure.
func (v *Validator) First() string {
	for _, msg := range v.Errors {
		return msg
	}
	return ""
}

// UserRegistration validates a registration payload.
func (v *Validator) UserRegistration(input *models.CreateUserInput) {
	v.Check(emailRegex.MatchString(input.Email), "email", "a valid email is required")
	v.Check(len(input.Password) >= 8, "password", "password must be at least 8 characters")
	v.Check(HasSpecialChar(input.Password), "password", "password must contain a special character")
	v.Check(strings.TrimSpace(input.FirstName) != "", "first_name", "first name is required")
	v.Check(strings.TrimSpace(input.LastName) != "", "last_name", "last name is required")
}

// HasSpecialChar reports whether s contains at least one non-alphanumeric rune.
func HasSpecialChar(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return true
		}
	}
	return false
}
