package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// SetupBinding makes gin's validator report fields by their JSON names.
func SetupBinding() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

type ValidationError struct {
	Field   string      `json:"field"`
	Value   interface{} `json:"value,omitempty"`
	Tag     string      `json:"tag,omitempty"`
	Message string      `json:"message"`
}

// FormatBindingError explains why a request body could not be bound.
func FormatBindingError(err error) []ValidationError {
	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		return FormatValidationErrors(validatorErrs)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []ValidationError{{
			Field:   typeErr.Field,
			Tag:     "type",
			Message: fmt.Sprintf("%s must be a %s", typeErr.Field, typeErr.Type.String()),
		}}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []ValidationError{{
			Field:   "body",
			Message: fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset),
		}}
	}

	return []ValidationError{{Field: "body", Message: err.Error()}}
}

func FormatValidationErrors(validatorErrs validator.ValidationErrors) []ValidationError {
	validationErrors := make([]ValidationError, 0, len(validatorErrs))
	for _, err := range validatorErrs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Value:   err.Value(),
			Tag:     err.Tag(),
			Message: getErrorMessage(err),
		})
	}
	return validationErrors
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}
