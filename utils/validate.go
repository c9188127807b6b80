package utils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors flattens a gin binding error into field -> message pairs.
// Non-validator errors (malformed body, wrong types) map to a single
// catch-all entry.
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"request": "malformed request payload"}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			out[field] = "this field is required"
		case "email":
			out[field] = "enter a valid email address"
		case "max":
			out[field] = "value is too long (max " + fe.Param() + ")"
		default:
			out[field] = "invalid value"
		}
	}
	return out
}
