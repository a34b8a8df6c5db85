package pos

import (
	"context"
	"errors"
	"log"
	"strconv"

	"github.com/totizi/Mogiten-system/models"
	"github.com/totizi/Mogiten-system/rowstore"
)

// Budget returns the allocated budget for a class, or the configured
// default when no row exists.
func (e *Engine) Budget(ctx context.Context, classID string) (int, error) {
	rows, err := e.cachedRows(ctx, e.budgetTable)
	if err != nil {
		return 0, err
	}
	for i, cells := range rows {
		if len(cells) < 1 || cells[0] != classID {
			continue
		}
		b, err := models.ParseBudgetRow(cells)
		if err != nil {
			log.Printf("skipping malformed budget row %d: %v", i+2, err)
			continue
		}
		return b.Amount, nil
	}
	return e.defaultBudget, nil
}

// SetBudget upserts the budget row for a class. The table holds at most
// one row per class: an existing row is updated in place, never
// duplicated.
func (e *Engine) SetBudget(ctx context.Context, classID string, amount int) error {
	if amount < 0 {
		return &ValidationError{Field: "amount", Reason: "must not be negative"}
	}
	row, err := e.store.FindRow(ctx, e.budgetTable, classID)
	if err != nil && !errors.Is(err, rowstore.ErrRowNotFound) {
		return err
	}
	if errors.Is(err, rowstore.ErrRowNotFound) {
		return e.write(ctx, func(ctx context.Context) error {
			return e.store.AppendRow(ctx, e.budgetTable, models.BudgetRow(models.Budget{ClassID: classID, Amount: amount}))
		}, e.budgetTable)
	}
	return e.write(ctx, func(ctx context.Context) error {
		return e.store.UpdateCell(ctx, e.budgetTable, row, models.BudgetColAmount+1, strconv.Itoa(amount))
	}, e.budgetTable)
}

// RemainingBudget is the allocation minus cumulative expenses. Negative
// means over budget, which is a valid state to display, not an error.
func (e *Engine) RemainingBudget(ctx context.Context, classID string) (int, error) {
	budget, err := e.Budget(ctx, classID)
	if err != nil {
		return 0, err
	}
	spent, err := e.ExpenseTotal(ctx, classID)
	if err != nil {
		return 0, err
	}
	return budget - spent, nil
}
