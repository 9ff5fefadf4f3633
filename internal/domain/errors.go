package domain

import "errors"

var (
	// ErrInvalidInput covers non-positive amounts, horizons out of range and negative rates
	ErrInvalidInput = errors.New("invalid input")
	// ErrDegenerateRate is returned when a zero rate would divide by zero in goal mode
	ErrDegenerateRate = errors.New("degenerate rate: enter a nonzero annual rate")
	// ErrIncompleteAnswers is returned when the quiz has unanswered or duplicated questions
	ErrIncompleteAnswers = errors.New("incomplete answers")
	// ErrUnknownProfile is returned for a risk profile name outside the enumeration
	ErrUnknownProfile = errors.New("unknown risk profile")
	// ErrProfileNotFound is returned by profile stores when nothing is saved for a user
	ErrProfileNotFound = errors.New("risk profile not found")
	// ErrUpstream wraps failures of the NAV and AI services
	ErrUpstream = errors.New("upstream service failed")
)

// CalculationError describes a rejected calculation. Kind is one of the sentinel
// errors above so callers can branch with errors.Is.
type CalculationError struct {
	Operation string
	Field     string
	Message   string
	Kind      error
}

func (e *CalculationError) Error() string {
	msg := e.Operation + ": "
	if e.Field != "" {
		msg += e.Field + ": "
	}
	msg += e.Message
	if e.Kind != nil {
		msg += " (" + e.Kind.Error() + ")"
	}
	return msg
}

func (e *CalculationError) Unwrap() error {
	return e.Kind
}

// NewInvalidInput builds an ErrInvalidInput error for a single field
func NewInvalidInput(operation, field, message string) error {
	return &CalculationError{Operation: operation, Field: field, Message: message, Kind: ErrInvalidInput}
}
