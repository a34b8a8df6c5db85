package models

import (
	"fmt"
	"strconv"
	"time"
)

// Cell layouts of the backing spreadsheet. Row 1 of every table is the
// header; data rows follow these column orders exactly. Other tools read
// the same sheet, so the layouts must not change.
//
//	ledger (one table per class): date, kind, actor, description, amount
//	menu (shared):                class_id, item_name, price, status, stock
//	budget (shared):              class_id, amount

// LedgerTimeLayout is the date format written to ledger rows.
const LedgerTimeLayout = "2006/01/02 15:04:05"

// LedgerHeader is row 1 of every class ledger table.
var LedgerHeader = []string{"date", "kind", "actor", "description", "amount"}

// MenuHeader is row 1 of the shared menu table.
var MenuHeader = []string{"class_id", "item_name", "price", "status", "stock"}

// BudgetHeader is row 1 of the shared budget table.
var BudgetHeader = []string{"class_id", "amount"}

// Column indexes into a menu row, used for single-cell updates.
const (
	MenuColClass = iota
	MenuColName
	MenuColPrice
	MenuColStatus
	MenuColStock
)

// BudgetColAmount is the amount column of a budget row.
const BudgetColAmount = 1

// LedgerRow formats a ledger entry as sheet cells.
func LedgerRow(e LedgerEntry) []string {
	return []string{
		e.Time.Format(LedgerTimeLayout),
		string(e.Kind),
		e.Actor,
		e.Description,
		strconv.Itoa(e.Amount),
	}
}

// ParseLedgerRow decodes one ledger data row. A malformed amount cell is
// reported so aggregations can skip the row instead of failing the whole
// table read.
func ParseLedgerRow(classID string, cells []string) (LedgerEntry, error) {
	if len(cells) < 5 {
		return LedgerEntry{}, fmt.Errorf("ledger row has %d cells, want 5", len(cells))
	}
	amount, err := strconv.Atoi(cells[4])
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("ledger amount %q: %w", cells[4], err)
	}
	// Tolerate date-only rows written by the old expense form.
	t, err := time.Parse(LedgerTimeLayout, cells[0])
	if err != nil {
		t, err = time.Parse("2006/01/02", cells[0])
		if err != nil {
			return LedgerEntry{}, fmt.Errorf("ledger date %q: %w", cells[0], err)
		}
	}
	return LedgerEntry{
		ClassID:     classID,
		Time:        t,
		Kind:        EntryKind(cells[1]),
		Actor:       cells[2],
		Description: cells[3],
		Amount:      amount,
	}, nil
}

// MenuRow formats a menu item as sheet cells.
func MenuRow(m MenuItem) []string {
	return []string{
		m.ClassID,
		m.Name,
		strconv.Itoa(m.Price),
		string(m.Status),
		strconv.Itoa(m.Stock),
	}
}

// ParseMenuRow decodes one menu data row.
func ParseMenuRow(cells []string) (MenuItem, error) {
	if len(cells) < 5 {
		return MenuItem{}, fmt.Errorf("menu row has %d cells, want 5", len(cells))
	}
	price, err := strconv.Atoi(cells[2])
	if err != nil {
		return MenuItem{}, fmt.Errorf("menu price %q: %w", cells[2], err)
	}
	stock, err := strconv.Atoi(cells[4])
	if err != nil {
		return MenuItem{}, fmt.Errorf("menu stock %q: %w", cells[4], err)
	}
	return MenuItem{
		ClassID: cells[0],
		Name:    cells[1],
		Price:   price,
		Status:  ItemStatus(cells[3]),
		Stock:   stock,
	}, nil
}

// BudgetRow formats a budget as sheet cells.
func BudgetRow(b Budget) []string {
	return []string{b.ClassID, strconv.Itoa(b.Amount)}
}

// ParseBudgetRow decodes one budget data row.
func ParseBudgetRow(cells []string) (Budget, error) {
	if len(cells) < 2 {
		return Budget{}, fmt.Errorf("budget row has %d cells, want 2", len(cells))
	}
	amount, err := strconv.Atoi(cells[1])
	if err != nil {
		return Budget{}, fmt.Errorf("budget amount %q: %w", cells[1], err)
	}
	return Budget{ClassID: cells[0], Amount: amount}, nil
}
