// AngelaMos | 2026
// validation.go

package core

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormatValidationError flattens validator.ValidationErrors into a
// single user-facing message.
func FormatValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "invalid request"
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		messages = append(messages, formatFieldError(fieldErr))
	}

	return strings.Join(messages, "; ")
}

func formatFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field()[:1]) + fe.Field()[1:]

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "ltfield":
		return fmt.Sprintf("%s must be less than %s", field, fe.Param())
	case "alphaspace":
		return fmt.Sprintf("%s may only contain alphabetic characters and spaces", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

var alphaSpaceOnly = func(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == ' '
		if !isAlpha {
			return false
		}
	}
	return true
}

// NewValidator builds the validator used by all handlers, with the
// custom alphaspace rule registered (names are letters and spaces).
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	//nolint:errcheck // registration only fails on a nil func
	_ = v.RegisterValidation("alphaspace", func(fl validator.FieldLevel) bool {
		return alphaSpaceOnly(fl.Field().String())
	})

	return v
}
