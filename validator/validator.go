package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Message)
	}
	return strings.Join(messages, "; ")
}

// User-facing messages for the login and signup forms
const (
	MsgFillAllFields    = "Please fill in all fields"
	MsgPasswordMismatch = "Passwords don't match"
	MsgPasswordTooShort = "Password must be at least 6 characters"
	MsgInvalidEmail     = "Please enter a valid email address"
)

// formMessages lists tags in the order the forms report them: the first
// failing tag in this list wins, whatever field it is on.
var formMessages = []struct {
	tag     string
	message string
}{
	{"required", MsgFillAllFields},
	{"eqfield", MsgPasswordMismatch},
	{"min", MsgPasswordTooShort},
	{"email", MsgInvalidEmail},
}

// New creates a new validator instance
func New() *Validator {
	v := validator.New()

	// Register custom tag name function to use JSON tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

// Validate validates a struct and returns validation errors
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	// Convert validation errors to our custom format
	var validationErrs ValidationErrors
	for _, err := range fieldErrs {
		validationErrs = append(validationErrs, ValidationError{
			Field:   err.Field(),
			Message: msgForTag(err),
			Tag:     err.Tag(),
			Value:   fmt.Sprintf("%v", err.Value()),
		})
	}

	return validationErrs
}

// FormMessage validates a login or signup request and returns the single
// message the form should show, or "" when the request is valid.
func (v *Validator) FormMessage(i interface{}) string {
	err := v.Validate(i)
	if err == nil {
		return ""
	}

	var validationErrs ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	for _, fm := range formMessages {
		for _, ve := range validationErrs {
			if ve.Tag == fm.tag {
				return fm.message
			}
		}
	}
	return validationErrs[0].Message
}

// msgForTag returns a human-readable error message for a validation tag
func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
