// Package validator validates request DTOs with go-playground/validator and
// reports failures under the parameter names clients send.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps a configured go-playground validator.
type Validator struct {
	v *validator.Validate
}

// ValidationError describes one rejected field.
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message"`
}

// ValidationErrors is returned by Validate when any field is rejected.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}

	return strings.Join(msgs, "; ")
}

// New creates a Validator that names fields by their query or json tag,
// falling back to the Go field name.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(wireName)

	return &Validator{v: v}
}

// Validate checks i, which must be a struct or a pointer to one.
// Field failures are returned as ValidationErrors.
func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	typ := reflect.Indirect(reflect.ValueOf(i)).Type()

	errs := make(ValidationErrors, len(fieldErrs))
	for n, e := range fieldErrs {
		errs[n] = ValidationError{
			Field:   e.Field(),
			Tag:     e.Tag(),
			Value:   fmt.Sprint(e.Value()),
			Message: message(e, paramName(typ, e)),
		}
	}

	return errs
}

func wireName(fld reflect.StructField) string {
	for _, key := range []string{"query", "json"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name != "" && name != "-" {
			return name
		}
	}

	return fld.Name
}

// paramName resolves the param of a cross-field tag to the other field's wire name.
func paramName(typ reflect.Type, e validator.FieldError) string {
	switch e.Tag() {
	case "gtefield", "ltefield", "required_with", "required_without":
		if fld, ok := typ.FieldByName(e.Param()); ok {
			return wireName(fld)
		}
	}

	return e.Param()
}

func message(e validator.FieldError, param string) string {
	field := e.Field()

	switch e.Tag() {
	case "required":
		return field + " is required"
	case "required_without":
		return fmt.Sprintf("%s is required when %s is empty", field, param)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, param)
	case "gtefield":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "boolean":
		return field + " must be a boolean"
	default:
		return fmt.Sprintf("%s failed %s validation", field, e.Tag())
	}
}
