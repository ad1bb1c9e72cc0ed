package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFields is returned when one or more required fields are
	// blank; the wrapping ValidationError names every missing field.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidAmount is returned when t_amti does not parse as a decimal
	// number or is not strictly positive.
	ErrInvalidAmount = errors.New("invalid invoice amount")

	// ErrUnknownBusinessPartner is returned when the business-partner check
	// rejects t_ifbp.
	ErrUnknownBusinessPartner = errors.New("unknown business partner")

	// ErrUnknownCostCenter is returned when the cost-center check rejects
	// t_cprj.
	ErrUnknownCostCenter = errors.New("unknown cost center")
)

// ValidationError wraps a sentinel validation error with the offending field
// names. Callers match the kind with errors.Is and read Fields for the full
// missing-field list.
type ValidationError struct {
	Err    error
	Fields []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Err.Error(), strings.Join(e.Fields, ", "))
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// IsValidationError reports whether err originated from the validator.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
