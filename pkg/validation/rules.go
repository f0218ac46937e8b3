package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()
	configure(v)
	return v
}

// FieldError is the first failed rule of an ordered check.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Message }

// Rule checks one value against a validator tag and carries the message shown on failure.
type Rule struct {
	Field   string
	Value   any
	Tag     string
	Message string
}

// Required fails when value is empty.
func Required(field, value, message string) Rule {
	return Rule{Field: field, Value: value, Tag: "required", Message: message}
}

// First evaluates rules in order and returns the first failure, or nil when all pass.
func First(rules ...Rule) *FieldError {
	for _, r := range rules {
		if err := validate.Var(r.Value, r.Tag); err != nil {
			return &FieldError{Field: r.Field, Message: r.Message}
		}
	}
	return nil
}
