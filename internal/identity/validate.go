package identity

import (
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// FieldError describes a single validation failure on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Per-field messages. One message per field regardless of which rule
// tripped, reported in field declaration order (name, email, password).
var fieldMessages = map[string]string{
	"Name":     "Name is required",
	"Email":    "Please include a valid email",
	"Password": "Password must be at least 8 characters long",
}

// fieldErrors converts validator output into the structured error list.
// Fields are checked independently; one failing field never suppresses
// another.
func fieldErrors(err error) []FieldError {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		msg, found := fieldMessages[e.Field()]
		if !found {
			msg = e.Tag()
		}
		out = append(out, FieldError{
			Field:   strings.ToLower(e.Field()),
			Message: msg,
		})
	}
	return out
}

var emailFolder = cases.Fold()

// normalizeEmail trims whitespace and Unicode-case-folds the address so
// lookups and the store's uniqueness constraint are case-insensitive.
func normalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

// normalizeName strips control characters, trims whitespace and applies
// NFC so equivalent inputs store identical bytes.
func normalizeName(name string) string {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return norm.NFC.String(strings.TrimSpace(stripped))
}
