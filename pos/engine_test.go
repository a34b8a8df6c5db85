package pos

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/totizi/Mogiten-system/cache"
	"github.com/totizi/Mogiten-system/models"
	"github.com/totizi/Mogiten-system/retry"
	"github.com/totizi/Mogiten-system/rowstore"
)

const testClass = "3-A"

// testEnv is the standard harness: memory store with the event's three
// table kinds, a cache on a fake clock and a retry runner that does not
// sleep.
type testEnv struct {
	engine *Engine
	store  *rowstore.Memory
	cache  *cache.TableCache
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := rowstore.NewMemory()
	store.CreateTable("menu", models.MenuHeader)
	store.CreateTable("budget", models.BudgetHeader)
	store.CreateTable(testClass, models.LedgerHeader)
	store.CreateTable("3-B", models.LedgerHeader)

	env := &testEnv{
		store: store,
		cache: cache.New(30 * time.Second),
		now:   time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC),
	}
	env.cache.SetClock(func() time.Time { return env.now })

	r := retry.New(time.Millisecond)
	r.SetSleep(func(time.Duration) {})

	env.engine = NewEngine(store, env.cache, r, Options{})
	env.engine.SetClock(func() time.Time { return env.now })
	return env
}

// registerItem seeds one menu item through the engine.
func (env *testEnv) registerItem(t *testing.T, name string, price, stock int) models.MenuItem {
	t.Helper()
	item, err := env.engine.Register(context.Background(), testClass, name, price, stock)
	require.NoError(t, err)
	return item
}

// menuItem fetches the current persisted state of one item.
func (env *testEnv) menuItem(t *testing.T, name string) models.MenuItem {
	t.Helper()
	rows, err := env.store.ListRows(context.Background(), "menu")
	require.NoError(t, err)
	for _, cells := range rows {
		if cells[0] == testClass && cells[1] == name {
			item, err := models.ParseMenuRow(cells)
			require.NoError(t, err)
			return item
		}
	}
	t.Fatalf("item %q not in store", name)
	return models.MenuItem{}
}

// ledgerRows returns the persisted ledger of the test class.
func (env *testEnv) ledgerRows(t *testing.T) [][]string {
	t.Helper()
	rows, err := env.store.ListRows(context.Background(), testClass)
	require.NoError(t, err)
	return rows
}
