package pos

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/totizi/Mogiten-system/models"
)

// saleActor is recorded on checkout-created ledger rows.
const saleActor = "register"

// AppendSale writes one Sale row summarizing a whole cart.
func (e *Engine) AppendSale(ctx context.Context, classID string, itemNames []string, total int) error {
	entry := models.LedgerEntry{
		ClassID:     classID,
		Time:        e.now(),
		Kind:        models.KindSale,
		Actor:       saleActor,
		Description: strings.Join(itemNames, ", "),
		Amount:      total,
	}
	table := e.LedgerTable(classID)
	return e.write(ctx, func(ctx context.Context) error {
		return e.store.AppendRow(ctx, table, models.LedgerRow(entry))
	}, table)
}

// AppendExpense records a purchase made from the class budget.
func (e *Engine) AppendExpense(ctx context.Context, classID, actor, description string, amount int) error {
	if amount <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be positive"}
	}
	if description == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	entry := models.LedgerEntry{
		ClassID:     classID,
		Time:        e.now(),
		Kind:        models.KindExpense,
		Actor:       actor,
		Description: description,
		Amount:      amount,
	}
	table := e.LedgerTable(classID)
	return e.write(ctx, func(ctx context.Context) error {
		return e.store.AppendRow(ctx, table, models.LedgerRow(entry))
	}, table)
}

// Entries returns a class's ledger through the read cache, newest last.
// Malformed rows are skipped so one bad hand-edit cannot blank the
// whole history screen.
func (e *Engine) Entries(ctx context.Context, classID string) ([]models.LedgerEntry, error) {
	rows, err := e.cachedRows(ctx, e.LedgerTable(classID))
	if err != nil {
		return nil, err
	}
	entries := make([]models.LedgerEntry, 0, len(rows))
	for i, cells := range rows {
		entry, err := models.ParseLedgerRow(classID, cells)
		if err != nil {
			log.Printf("skipping malformed ledger row %d of %s: %v", i+2, classID, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ExpenseTotal sums all Expense rows of a class. A non-numeric amount
// cell is skipped, not fatal.
func (e *Engine) ExpenseTotal(ctx context.Context, classID string) (int, error) {
	return e.sumKind(ctx, classID, models.KindExpense)
}

// SalesTotal sums all Sale rows of a class.
func (e *Engine) SalesTotal(ctx context.Context, classID string) (int, error) {
	return e.sumKind(ctx, classID, models.KindSale)
}

func (e *Engine) sumKind(ctx context.Context, classID string, kind models.EntryKind) (int, error) {
	rows, err := e.cachedRows(ctx, e.LedgerTable(classID))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, cells := range rows {
		if len(cells) < 5 || cells[1] != string(kind) {
			continue
		}
		amount, err := strconv.Atoi(cells[4])
		if err != nil {
			continue
		}
		total += amount
	}
	return total, nil
}
