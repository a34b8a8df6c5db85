package pos

import (
	"context"
	"log"

	"github.com/totizi/Mogiten-system/models"
)

// Register adds a new menu item for a class. The name must be unique
// within the class; the status is derived from the initial stock.
func (e *Engine) Register(ctx context.Context, classID, name string, price, initialStock int) (models.MenuItem, error) {
	if name == "" {
		return models.MenuItem{}, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if price < 0 {
		return models.MenuItem{}, &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if initialStock < 0 {
		return models.MenuItem{}, &ValidationError{Field: "stock", Reason: "must not be negative"}
	}

	rows, err := e.store.ListRows(ctx, e.menuTable)
	if err != nil {
		return models.MenuItem{}, err
	}
	for _, cells := range rows {
		if len(cells) >= 2 && cells[0] == classID && cells[1] == name {
			return models.MenuItem{}, ErrDuplicateItem
		}
	}

	item := models.MenuItem{
		ClassID: classID,
		Name:    name,
		Price:   price,
		Status:  models.StatusFor(initialStock),
		Stock:   initialStock,
	}
	err = e.write(ctx, func(ctx context.Context) error {
		return e.store.AppendRow(ctx, e.menuTable, models.MenuRow(item))
	}, e.menuTable)
	if err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

// AdjustStock overwrites an item's stock count and recomputes its
// status from the invariant.
func (e *Engine) AdjustStock(ctx context.Context, classID, name string, newStock int) (models.MenuItem, error) {
	if newStock < 0 {
		return models.MenuItem{}, &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	item, row, err := e.findMenuRow(ctx, classID, name)
	if err != nil {
		return models.MenuItem{}, err
	}

	item.Stock = newStock
	item.Status = models.StatusFor(newStock)
	err = e.write(ctx, func(ctx context.Context) error {
		if err := e.store.UpdateCell(ctx, e.menuTable, row, models.MenuColStock+1, models.MenuRow(item)[models.MenuColStock]); err != nil {
			return err
		}
		return e.store.UpdateCell(ctx, e.menuTable, row, models.MenuColStatus+1, string(item.Status))
	}, e.menuTable)
	if err != nil {
		return models.MenuItem{}, err
	}
	return item, nil
}

// ListAvailable returns the current view of a class's menu through the
// read cache. A negative stock cell left behind by a stale-snapshot
// race is repaired in place (floored to zero, marked sold out) and
// reported as a warning; the returned items are still valid.
func (e *Engine) ListAvailable(ctx context.Context, classID string) ([]models.MenuItem, []*ConsistencyWarning, error) {
	rows, err := e.cachedRows(ctx, e.menuTable)
	if err != nil {
		return nil, nil, err
	}

	var items []models.MenuItem
	var warnings []*ConsistencyWarning
	for i, cells := range rows {
		if len(cells) < 1 || cells[0] != classID {
			continue
		}
		item, err := models.ParseMenuRow(cells)
		if err != nil {
			log.Printf("skipping malformed menu row %d: %v", i+2, err)
			continue
		}
		if item.Stock < 0 {
			w := &ConsistencyWarning{ClassID: classID, ItemName: item.Name, Stock: item.Stock}
			warnings = append(warnings, w)
			if err := e.repairStock(ctx, i+2); err != nil {
				return nil, warnings, err
			}
			item.Stock = 0
			item.Status = models.StatusSoldOut
		}
		items = append(items, item)
	}
	return items, warnings, nil
}

// repairStock floors a raced-negative stock cell at zero.
func (e *Engine) repairStock(ctx context.Context, row int) error {
	return e.write(ctx, func(ctx context.Context) error {
		if err := e.store.UpdateCell(ctx, e.menuTable, row, models.MenuColStock+1, "0"); err != nil {
			return err
		}
		return e.store.UpdateCell(ctx, e.menuTable, row, models.MenuColStatus+1, string(models.StatusSoldOut))
	}, e.menuTable)
}

// Remove deletes an item from the class menu.
func (e *Engine) Remove(ctx context.Context, classID, name string) error {
	_, row, err := e.findMenuRow(ctx, classID, name)
	if err != nil {
		return err
	}
	return e.write(ctx, func(ctx context.Context) error {
		return e.store.DeleteRow(ctx, e.menuTable, row)
	}, e.menuTable)
}

// findMenuRow locates an item with a fresh read, returning its current
// state and 1-based sheet row. Writers need the live row index, not a
// cached snapshot, because appends and deletes shift positions.
func (e *Engine) findMenuRow(ctx context.Context, classID, name string) (models.MenuItem, int, error) {
	rows, err := e.store.ListRows(ctx, e.menuTable)
	if err != nil {
		return models.MenuItem{}, 0, err
	}
	for i, cells := range rows {
		if len(cells) >= 2 && cells[0] == classID && cells[1] == name {
			item, err := models.ParseMenuRow(cells)
			if err != nil {
				return models.MenuItem{}, 0, err
			}
			return item, i + 2, nil
		}
	}
	return models.MenuItem{}, 0, ErrNotFound
}
