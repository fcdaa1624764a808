package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict (e.g. email taken).
	ErrAlreadyExists = errors.New("already exists")
	// ErrQuantityTooLow rejects quantity changes that would drop a line
	// below one unit.
	ErrQuantityTooLow = errors.New("quantity cannot drop below 1")
	// ErrBadAdjustment rejects quantity deltas other than -1 and +1.
	ErrBadAdjustment = errors.New("adjustment must be -1 or +1")
)

// StockExceededError rejects a quantity that would pass the product's
// stock ceiling. Remaining carries the stock count shown to the shopper.
type StockExceededError struct {
	Remaining int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("remaining stocks: %d", e.Remaining)
}
