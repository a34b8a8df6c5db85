// Package pos is the transactional core of the stall point-of-sale:
// inventory, sales/expense ledger, budget tracking, operator sessions
// and the checkout transaction, all persisted through a rowstore.Store
// behind a TTL read cache and a bounded-retry write path.
package pos

import (
	"context"
	"time"

	"github.com/totizi/Mogiten-system/cache"
	"github.com/totizi/Mogiten-system/retry"
	"github.com/totizi/Mogiten-system/rowstore"
)

// DefaultBudget is assumed for a class with no budget row.
const DefaultBudget = 30000

// Options tunes table naming and defaults. Zero values fall back to the
// conventional sheet layout.
type Options struct {
	MenuTable     string // default "menu"
	BudgetTable   string // default "budget"
	DefaultBudget int    // default DefaultBudget
}

// Engine owns all access to the backing store. Every operation is
// synchronous: it blocks the calling interaction until the write, with
// its retries, completes or fails. There is no cross-session locking;
// each class's rows are isolated by the class id key and races between
// devices resolve last-write-wins per cell.
type Engine struct {
	store rowstore.Store
	cache *cache.TableCache
	retry *retry.Runner

	menuTable     string
	budgetTable   string
	defaultBudget int

	now func() time.Time
}

// NewEngine wires the engine. The cache and retry runner are injected
// so their contracts stay testable in isolation.
func NewEngine(store rowstore.Store, c *cache.TableCache, r *retry.Runner, opts Options) *Engine {
	if opts.MenuTable == "" {
		opts.MenuTable = "menu"
	}
	if opts.BudgetTable == "" {
		opts.BudgetTable = "budget"
	}
	if opts.DefaultBudget == 0 {
		opts.DefaultBudget = DefaultBudget
	}
	return &Engine{
		store:         store,
		cache:         c,
		retry:         r,
		menuTable:     opts.MenuTable,
		budgetTable:   opts.BudgetTable,
		defaultBudget: opts.DefaultBudget,
		now:           time.Now,
	}
}

// SetClock replaces the time source, for tests.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// MenuTable returns the shared menu table name.
func (e *Engine) MenuTable() string { return e.menuTable }

// LedgerTable returns the ledger table name for a class. Each class has
// its own sheet tab, named by its id.
func (e *Engine) LedgerTable(classID string) string { return classID }

// cachedRows reads a table through the TTL cache.
func (e *Engine) cachedRows(ctx context.Context, table string) ([][]string, error) {
	return e.cache.Get(ctx, table, func(ctx context.Context) ([][]string, error) {
		return e.store.ListRows(ctx, table)
	})
}

// write runs a store mutation through the retry runner and, on success,
// invalidates the named tables before returning.
func (e *Engine) write(ctx context.Context, op func(ctx context.Context) error, invalidate ...string) error {
	if err := e.retry.Do(ctx, op); err != nil {
		return err
	}
	for _, table := range invalidate {
		e.cache.Invalidate(table)
	}
	return nil
}
