package models

import "time"

// ItemStatus is the sale status of a menu item. The persisted labels are
// fixed for sheet compatibility, do not rename.
type ItemStatus string

const (
	StatusOnSale  ItemStatus = "OnSale"
	StatusSoldOut ItemStatus = "SoldOut"
)

// EntryKind marks a ledger row as a sale or an expense.
type EntryKind string

const (
	KindSale    EntryKind = "Sale"
	KindExpense EntryKind = "Expense"
)

// MenuItem is one sellable item of a class. Name is unique within the
// class. Stock and status are tied: status is SoldOut exactly when stock
// is zero, recomputed on every stock write.
type MenuItem struct {
	ClassID string     `json:"class_id"`
	Name    string     `json:"name"`
	Price   int        `json:"price"`
	Status  ItemStatus `json:"status"`
	Stock   int        `json:"stock"`
}

// StatusFor recomputes the status invariant from a stock count.
func StatusFor(stock int) ItemStatus {
	if stock <= 0 {
		return StatusSoldOut
	}
	return StatusOnSale
}

// LedgerEntry is one row of a class ledger. Entries are append-only and
// never updated or deleted once written.
type LedgerEntry struct {
	ClassID     string    `json:"class_id"`
	Time        time.Time `json:"time"`
	Kind        EntryKind `json:"kind"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	Amount      int       `json:"amount"`
}

// Budget is the allocated budget for one class. At most one row per
// class exists in the budget table.
type Budget struct {
	ClassID string `json:"class_id"`
	Amount  int    `json:"amount"`
}

// CartLine is one item in an open cart. Price is snapshotted at add time
// so a later menu price edit does not change an open cart.
type CartLine struct {
	ItemName string `json:"item_name"`
	Price    int    `json:"price"`
}
