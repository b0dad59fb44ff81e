package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrNotFound               = errors.New("not found")
	ErrConflict               = errors.New("conflict")
)

// Code is a stable identifier for an error kind, suitable for machine-readable output.
type Code string

const (
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeInvalidState Code = "INVALID_STATE_TRANSITION"
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInternal     Code = "INTERNAL_ERROR"
)

var codeBySentinel = []struct {
	err  error
	code Code
}{
	{ErrInvalidInput, CodeInvalidInput},
	{ErrInvalidStateTransition, CodeInvalidState},
	{ErrNotFound, CodeNotFound},
	{ErrConflict, CodeConflict},
}

// CodeOf returns the code of the first sentinel found in err's chain.
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	for _, c := range codeBySentinel {
		if errors.Is(err, c.err) {
			return c.code
		}
	}

	return CodeInternal
}

// Invalid wraps ErrInvalidInput with a formatted detail.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// InvalidState wraps ErrInvalidStateTransition with a formatted detail.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidStateTransition, fmt.Sprintf(format, args...))
}

// FromValidation converts validator errors into an ErrInvalidInput with one message per field.
// Any other error is returned unchanged.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Field()+" "+validationMessage(fe))
	}

	sort.Strings(msgs)

	return Invalid("%s", strings.Join(msgs, "; "))
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	}

	return "is invalid"
}
