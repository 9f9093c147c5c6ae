package common

import (
	"strings"

	validator "github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks struct tags on a request payload and converts failures into
// a VALIDATION_ERROR carrying the offending fields.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ErrValidation("invalid payload")
	}
	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	appErr := ErrValidation("invalid value for: " + strings.Join(fields, ", "))
	appErr.Details = map[string]any{"fields": fields}
	return appErr
}
