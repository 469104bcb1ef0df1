package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrOrderNotFound    = errors.New("order_not_found")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrBookInconsistent = errors.New("book_inconsistent")
	ErrUnknownEvent     = errors.New("unknown_event_kind")
	ErrUnknownStrategy  = errors.New("unknown_strategy")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
