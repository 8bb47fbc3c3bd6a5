package hr

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// MinReviewYear is the earliest year a review may be filed for
const MinReviewYear = 2000

// ErrValidation matches every *ValidationError
var ErrValidation = errors.New("validation failed")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError describes an attribute value that violates its constraint
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// check runs a validator tag against value and maps a failure to a
// ValidationError for field
func check(field string, value any, tag, message string) error {
	if err := validate.Var(value, tag); err != nil {
		return &ValidationError{Field: field, Message: message, Err: err}
	}
	return nil
}

func checkNonEmpty(field, value string) error {
	return check(field, value, "required", field+" must be a non-empty string")
}
