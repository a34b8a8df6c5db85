package pos

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateItem is returned when registering an item name that
	// already exists in the class menu.
	ErrDuplicateItem = errors.New("item already exists")
	// ErrNotFound is returned for unknown items, sessions or classes.
	ErrNotFound = errors.New("not found")
	// ErrOutOfStock rejects adding an item with no sellable stock left
	// once lines already in the cart are counted.
	ErrOutOfStock = errors.New("out of stock")
	// ErrInsufficientPayment rejects a checkout whose tendered amount
	// is below the cart total.
	ErrInsufficientPayment = errors.New("insufficient payment")
)

// ValidationError rejects bad input at the API boundary before any
// remote write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConsistencyWarning reports a stock underflow left behind by two
// sessions racing for the same units. The store has no locking, so this
// is a tolerated state: the stock has been floored at zero and the
// operator should be told the count may be stale.
type ConsistencyWarning struct {
	ClassID  string
	ItemName string
	Stock    int // the negative value that was observed
}

func (w *ConsistencyWarning) Error() string {
	return fmt.Sprintf("stock underflow on %s/%s (read %d, floored to 0)", w.ClassID, w.ItemName, w.Stock)
}

// ReconciliationError reports a partially completed checkout: the sale
// row is known to be committed but a stock update did not go through.
// The sale must not be re-entered; the stock counts need a manual check.
type ReconciliationError struct {
	ClassID  string
	ItemName string
	Amount   int
	Err      error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("sale of %d yen recorded for %s but stock update failed at %q: %v",
		e.Amount, e.ClassID, e.ItemName, e.Err)
}

func (e *ReconciliationError) Unwrap() error { return e.Err }
