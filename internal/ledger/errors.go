package ledger

import "errors"

// Domain error kinds. Handlers map these to HTTP statuses with errors.Is;
// anything else surfaces as an opaque internal error.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrPriceUnavailable     = errors.New("price unavailable")
	ErrInsufficientFunds    = errors.New("insufficient cash balance")
	ErrInsufficientHoldings = errors.New("insufficient stock holdings")
	ErrNotFound             = errors.New("not found")

	// ErrZeroQuantity guards the weighted-average division. Callers only
	// recompute the average while acquiring (added quantity > 0), so hitting
	// this is a consistency fault, not a user error.
	ErrZeroQuantity = errors.New("division by zero: combined quantity is zero")
)
