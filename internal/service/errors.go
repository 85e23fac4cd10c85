package service

import (
	"strings"

	"github.com/dmehra2102/prod-golang-projects/clinicbook/internal/domain/consultation"
)

// ValidationError collects every rule rejection for one request. errors.Is matches the
// individual consultation sentinels it wraps.
type ValidationError struct {
	Messages   []string
	violations []*consultation.ValidationError
}

func newValidationError(violations ...*consultation.ValidationError) *ValidationError {
	e := &ValidationError{violations: violations}
	for _, v := range violations {
		e.Messages = append(e.Messages, v.Message)
	}
	return e
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() []error {
	errs := make([]error, len(e.violations))
	for i, v := range e.violations {
		errs[i] = v
	}
	return errs
}

// Codes lists the rejection codes in report order.
func (e *ValidationError) Codes() []string {
	codes := make([]string, len(e.violations))
	for i, v := range e.violations {
		codes[i] = v.Code
	}
	return codes
}
