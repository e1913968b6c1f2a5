package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// FieldError is one field-level validation failure as it appears on the wire.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// messages maps a field+tag pair to its wire message. Unlisted pairs fall
// back to a generic message.
var messages = map[string]string{
	"Username.required": "Username is required",
	"Username.min":      "Username must be between 3 and 30 characters",
	"Username.max":      "Username must be between 3 and 30 characters",
	"Email.required":    "Valid email is required",
	"Email.email":       "Valid email is required",
	"Password.required": "Password must be at least 6 characters",
	"Password.min":      "Password must be at least 6 characters",
	"Title.required":    "Title must be between 1 and 200 characters",
	"Title.max":         "Title must be between 1 and 200 characters",
	"Content.required":  "Content is required",
	"Category.required": "Valid category ID is required",
	"Category.uuid":     "Valid category ID is required",
}

// Validate runs struct validation and translates failures into field-level
// errors. An empty result means the value is valid.
func Validate(s any) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "", Message: "invalid request"}}
	}

	fieldErrs := make([]FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		fieldErrs = append(fieldErrs, FieldError{
			Field:   fe.Field(),
			Message: msg,
		})
	}

	return fieldErrs
}
