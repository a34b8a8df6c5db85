package rowstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemory() *Memory {
	m := NewMemory()
	m.CreateTable("menu", []string{"class_id", "item_name", "price", "status", "stock"})
	return m
}

func TestMemoryAppendAndList(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-A", "Yakisoba", "300", "OnSale", "50"}))
	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-B", "Juice", "100", "OnSale", "80"}))

	rows, err := m.ListRows(ctx, "menu")
	require.NoError(t, err)
	require.Len(t, rows, 2, "header row must not be listed")
	assert.Equal(t, "Yakisoba", rows[0][1])
}

func TestMemoryUpdateCell(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()
	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-A", "Yakisoba", "300", "OnSale", "50"}))

	// Data starts at sheet row 2; columns are 1-based.
	require.NoError(t, m.UpdateCell(ctx, "menu", 2, 5, "49"))

	rows, err := m.ListRows(ctx, "menu")
	require.NoError(t, err)
	assert.Equal(t, "49", rows[0][4])
}

func TestMemoryDeleteRowShiftsUp(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()
	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-A", "Yakisoba", "300", "OnSale", "50"}))
	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-A", "Juice", "100", "OnSale", "80"}))

	require.NoError(t, m.DeleteRow(ctx, "menu", 2))

	rows, err := m.ListRows(ctx, "menu")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Juice", rows[0][1])
}

func TestMemoryFindRowMatchesKeyColumn(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()
	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-A", "Yakisoba", "300", "OnSale", "50"}))
	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-B", "Juice", "100", "OnSale", "80"}))

	row, err := m.FindRow(ctx, "menu", "3-B")
	require.NoError(t, err)
	assert.Equal(t, 3, row)

	_, err = m.FindRow(ctx, "menu", "3-C")
	assert.ErrorIs(t, err, ErrRowNotFound)
}

func TestMemoryUnknownTable(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()

	_, err := m.ListRows(ctx, "nope")
	assert.ErrorIs(t, err, ErrTableNotFound)
	assert.ErrorIs(t, m.AppendRow(ctx, "nope", nil), ErrTableNotFound)
}

func TestMemoryFailNextInjectsInOrder(t *testing.T) {
	m := newTestMemory()
	ctx := context.Background()
	boom := errors.New("boom")
	m.FailNext(nil, boom)

	require.NoError(t, m.AppendRow(ctx, "menu", []string{"3-A", "Yakisoba", "300", "OnSale", "50"}))
	_, err := m.ListRows(ctx, "menu")
	assert.ErrorIs(t, err, boom)

	// Queue drained; operations succeed again.
	_, err = m.ListRows(ctx, "menu")
	assert.NoError(t, err)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&RemoteError{Transient: true, Err: errors.New("net")}))
	assert.False(t, IsTransient(&RemoteError{Transient: false, Err: errors.New("auth")}))
	assert.False(t, IsTransient(errors.New("plain")))
}
