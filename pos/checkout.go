package pos

import (
	"context"
	"strconv"

	"github.com/totizi/Mogiten-system/models"
)

// Receipt is the result of a settled checkout.
type Receipt struct {
	Total    int      `json:"total"`
	Received int      `json:"received"`
	Change   int      `json:"change"`
	Items    []string `json:"items"`
	SoldOut  []string `json:"sold_out,omitempty"`

	// Warnings carries stock underflows detected while decrementing;
	// the sale itself settled normally.
	Warnings []*ConsistencyWarning `json:"warnings,omitempty"`
}

// Checkout settles a session's cart as one logical transaction: one
// Sale ledger row, then a stock decrement per distinct item, each write
// going through the retry runner. The backing store has no cross-row
// transactions, so a failure between the two steps is surfaced as a
// ReconciliationError (the sale is recorded, the stock may be stale),
// never as silent success or a silently lost sale.
//
// On any failure the cart and tendered amount are left intact so the
// operator can retry or cancel explicitly.
func (e *Engine) Checkout(ctx context.Context, s *Session) (*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFilling || len(s.cart) == 0 {
		return nil, &ValidationError{Field: "cart", Reason: "must not be empty"}
	}
	total := s.total()
	if s.received < total {
		return nil, ErrInsufficientPayment
	}

	names := make([]string, len(s.cart))
	quantities := make(map[string]int, len(s.cart))
	var distinct []string
	for i, line := range s.cart {
		names[i] = line.ItemName
		if quantities[line.ItemName] == 0 {
			distinct = append(distinct, line.ItemName)
		}
		quantities[line.ItemName]++
	}

	// Step 1: the sale row. Failing here loses nothing; the operator
	// just retries.
	if err := e.AppendSale(ctx, s.ClassID, names, total); err != nil {
		return nil, err
	}

	// The sale is committed from here on: any stock failure below must
	// be reported as reconciliation, and the menu cache must be dropped
	// even then so reads see whatever was written.
	defer e.cache.Invalidate(e.menuTable)

	receipt := &Receipt{
		Total:    total,
		Received: s.received,
		Change:   s.received - total,
		Items:    names,
	}

	rows, err := e.store.ListRows(ctx, e.menuTable)
	if err != nil {
		return nil, &ReconciliationError{ClassID: s.ClassID, Amount: total, Err: err}
	}
	for _, name := range distinct {
		row, current := 0, 0
		for i, cells := range rows {
			if len(cells) >= 5 && cells[0] == s.ClassID && cells[1] == name {
				row = i + 2
				current, _ = strconv.Atoi(cells[4])
				break
			}
		}
		if row == 0 {
			// The item was removed under us; the sale stands, the
			// operator reconciles by hand.
			return nil, &ReconciliationError{ClassID: s.ClassID, ItemName: name, Amount: total, Err: ErrNotFound}
		}

		sold := quantities[name]
		if current < sold {
			receipt.Warnings = append(receipt.Warnings, &ConsistencyWarning{
				ClassID:  s.ClassID,
				ItemName: name,
				Stock:    current - sold,
			})
		}
		remaining := current - sold
		if remaining < 0 {
			remaining = 0
		}
		status := models.StatusFor(remaining)

		err := e.retry.Do(ctx, func(ctx context.Context) error {
			if err := e.store.UpdateCell(ctx, e.menuTable, row, models.MenuColStock+1, strconv.Itoa(remaining)); err != nil {
				return err
			}
			return e.store.UpdateCell(ctx, e.menuTable, row, models.MenuColStatus+1, string(status))
		})
		if err != nil {
			return nil, &ReconciliationError{ClassID: s.ClassID, ItemName: name, Amount: total, Err: err}
		}
		if status == models.StatusSoldOut {
			receipt.SoldOut = append(receipt.SoldOut, name)
		}
	}

	// Settled; the session is immediately ready for the next customer.
	s.state = StateSettled
	s.reset()
	return receipt, nil
}
