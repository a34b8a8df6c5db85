package pos

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/totizi/Mogiten-system/models"
	"github.com/totizi/Mogiten-system/rowstore"
)

func transientErr() error {
	return &rowstore.RemoteError{Op: "write", Table: "menu", Transient: true, Err: errors.New("net down")}
}

func permanentErr() error {
	return &rowstore.RemoteError{Op: "write", Table: "menu", Transient: false, Err: errors.New("forbidden")}
}

// Two 100-yen units from a stock of 3, 210 tendered: change of 10,
// stock down to 1.
func TestCheckoutHappyPath(t *testing.T) {
	env := newTestEnv(t)
	item := env.registerItem(t, "ItemA", 100, 3)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.SetReceived(210))

	receipt, err := env.engine.Checkout(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 200, receipt.Total)
	assert.Equal(t, 10, receipt.Change)
	assert.Equal(t, []string{"ItemA", "ItemA"}, receipt.Items)
	assert.Empty(t, receipt.Warnings)

	persisted := env.menuItem(t, "ItemA")
	assert.Equal(t, 1, persisted.Stock)
	assert.Equal(t, models.StatusOnSale, persisted.Status)

	// One Sale row summarizing the whole cart.
	rows := env.ledgerRows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sale", rows[0][1])
	assert.Equal(t, "register", rows[0][2])
	assert.Equal(t, "ItemA, ItemA", rows[0][3])
	assert.Equal(t, "200", rows[0][4])

	// Settled carts reset for the next customer.
	assert.Equal(t, StateEmpty, s.State())
	assert.Empty(t, s.Lines())
	assert.Zero(t, s.Received())
}

// 149 tendered against a 150-yen total is one yen short.
func TestCheckoutInsufficientPayment(t *testing.T) {
	env := newTestEnv(t)
	item := env.registerItem(t, "ItemA", 150, 3)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.SetReceived(149))

	_, err := env.engine.Checkout(context.Background(), s)
	require.ErrorIs(t, err, ErrInsufficientPayment)

	// Cart and tendered amount must be untouched.
	assert.Equal(t, StateFilling, s.State())
	assert.Len(t, s.Lines(), 1)
	assert.Equal(t, 149, s.Received())
	assert.Empty(t, env.ledgerRows(t))
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	s := NewSession(testClass, "hanako")
	_, err := env.engine.Checkout(context.Background(), s)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestCheckoutZeroReceivedRejected(t *testing.T) {
	env := newTestEnv(t)
	item := env.registerItem(t, "ItemA", 100, 3)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))

	// Untracked exact-cash entry is not allowed; the stricter reading
	// requires tendering at least the total.
	_, err := env.engine.Checkout(context.Background(), s)
	assert.ErrorIs(t, err, ErrInsufficientPayment)
}

func TestCheckoutChangeIsExact(t *testing.T) {
	env := newTestEnv(t)
	prices := []int{120, 80, 350}
	for i, p := range prices {
		env.registerItem(t, string(rune('A'+i)), p, 10)
	}
	s := NewSession(testClass, "hanako")
	total := 0
	for i, p := range prices {
		require.NoError(t, s.AddItem(onSaleItem(string(rune('A'+i)), p, 10)))
		total += p
	}
	require.NoError(t, s.SetReceived(1000))

	receipt, err := env.engine.Checkout(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, total, receipt.Total)
	assert.Equal(t, 1000-total, receipt.Change)
}

func TestCheckoutSoldOutTransition(t *testing.T) {
	env := newTestEnv(t)
	item := env.registerItem(t, "ItemA", 100, 2)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.SetReceived(200))

	receipt, err := env.engine.Checkout(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, []string{"ItemA"}, receipt.SoldOut)

	persisted := env.menuItem(t, "ItemA")
	assert.Equal(t, 0, persisted.Stock)
	assert.Equal(t, models.StatusSoldOut, persisted.Status)
}

// Repeated checkouts drain stock to the floor: status tracks the
// invariant the whole way down.
func TestCheckoutStockInvariantOverMultipleSales(t *testing.T) {
	env := newTestEnv(t)
	env.registerItem(t, "ItemA", 100, 5)

	// Two checkouts of two units each.
	for i := 0; i < 2; i++ {
		item := env.menuItem(t, "ItemA")
		s := NewSession(testClass, "hanako")
		require.NoError(t, s.AddItem(item))
		require.NoError(t, s.AddItem(item))
		require.NoError(t, s.SetReceived(200))
		_, err := env.engine.Checkout(context.Background(), s)
		require.NoError(t, err)
		assert.Equal(t, 5-2*(i+1), env.menuItem(t, "ItemA").Stock)
	}

	// The last unit: a second AddItem is already refused locally.
	item := env.menuItem(t, "ItemA")
	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))
	assert.ErrorIs(t, s.AddItem(item), ErrOutOfStock)
	require.NoError(t, s.SetReceived(100))
	_, err := env.engine.Checkout(context.Background(), s)
	require.NoError(t, err)

	persisted := env.menuItem(t, "ItemA")
	assert.Equal(t, 0, persisted.Stock)
	assert.Equal(t, models.StatusSoldOut, persisted.Status)
}

func TestCheckoutSaleAppendFailureKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	item := env.registerItem(t, "ItemA", 100, 3)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.SetReceived(100))

	// All three append attempts fail; no sale row, cart intact.
	env.store.FailNext(transientErr(), transientErr(), transientErr())
	_, err := env.engine.Checkout(context.Background(), s)
	require.Error(t, err)

	var reconciliation *ReconciliationError
	assert.False(t, errors.As(err, &reconciliation), "nothing committed, not a reconciliation case")
	assert.Empty(t, env.ledgerRows(t))
	assert.Equal(t, StateFilling, s.State())
	assert.Len(t, s.Lines(), 1)
	assert.Equal(t, 100, s.Received())

	// The same session settles once the store recovers.
	receipt, err := env.engine.Checkout(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, 0, receipt.Change)
}

func TestCheckoutReportsReconciliationWhenStockWriteFails(t *testing.T) {
	env := newTestEnv(t)
	item := env.registerItem(t, "ItemA", 100, 3)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.SetReceived(100))

	// Append succeeds, the menu re-read succeeds, then every stock
	// update attempt fails until retries are exhausted.
	env.store.FailNext(nil, nil, transientErr(), transientErr(), transientErr())
	_, err := env.engine.Checkout(context.Background(), s)

	var reconciliation *ReconciliationError
	require.ErrorAs(t, err, &reconciliation)
	assert.Equal(t, "ItemA", reconciliation.ItemName)
	assert.Equal(t, 100, reconciliation.Amount)

	// The sale row is committed even though stock was not decremented.
	rows := env.ledgerRows(t)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, env.menuItem(t, "ItemA").Stock)

	// The operator keeps the cart to decide what to do.
	assert.Equal(t, StateFilling, s.State())
}

func TestCheckoutReconciliationOnPermanentListFailure(t *testing.T) {
	env := newTestEnv(t)
	item := env.registerItem(t, "ItemA", 100, 3)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(item))
	require.NoError(t, s.SetReceived(100))

	env.store.FailNext(nil, permanentErr())
	_, err := env.engine.Checkout(context.Background(), s)

	var reconciliation *ReconciliationError
	require.ErrorAs(t, err, &reconciliation)
	require.Len(t, env.ledgerRows(t), 1)
}

// Two sessions race for the last unit without locking. Both
// pass their local stock check; the store floors at zero and the losing
// checkout carries a consistency warning.
func TestCheckoutLastUnitRace(t *testing.T) {
	env := newTestEnv(t)
	env.registerItem(t, "ItemA", 100, 1)

	// Both devices list the menu before either checks out.
	snapshot := env.menuItem(t, "ItemA")
	s1 := NewSession(testClass, "hanako")
	s2 := NewSession(testClass, "taro")
	require.NoError(t, s1.AddItem(snapshot))
	require.NoError(t, s2.AddItem(snapshot))
	require.NoError(t, s1.SetReceived(100))
	require.NoError(t, s2.SetReceived(100))

	r1, err := env.engine.Checkout(context.Background(), s1)
	require.NoError(t, err)
	assert.Empty(t, r1.Warnings)

	r2, err := env.engine.Checkout(context.Background(), s2)
	require.NoError(t, err, "the race is tolerated, not a crash")
	require.Len(t, r2.Warnings, 1)
	assert.Equal(t, "ItemA", r2.Warnings[0].ItemName)

	// Stock is floored, never negative.
	persisted := env.menuItem(t, "ItemA")
	assert.Equal(t, 0, persisted.Stock)
	assert.Equal(t, models.StatusSoldOut, persisted.Status)
}

// A checkout-created invalidation makes the next cached read fresh.
func TestCheckoutInvalidatesCaches(t *testing.T) {
	env := newTestEnv(t)
	env.registerItem(t, "ItemA", 100, 3)

	// Warm both caches.
	items, _, err := env.engine.ListAvailable(context.Background(), testClass)
	require.NoError(t, err)
	require.Equal(t, 3, items[0].Stock)
	_, err = env.engine.Entries(context.Background(), testClass)
	require.NoError(t, err)

	s := NewSession(testClass, "hanako")
	require.NoError(t, s.AddItem(items[0]))
	require.NoError(t, s.SetReceived(100))
	_, err = env.engine.Checkout(context.Background(), s)
	require.NoError(t, err)

	// Still inside the TTL window, yet both reads reflect the write.
	items, _, err = env.engine.ListAvailable(context.Background(), testClass)
	require.NoError(t, err)
	assert.Equal(t, 2, items[0].Stock)

	entries, err := env.engine.Entries(context.Background(), testClass)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
