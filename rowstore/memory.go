package rowstore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and local development.
// Each table holds its header in row 1 like the real sheet. FailNext
// injects one error per queued entry, consumed write/read order, so
// retry and reconciliation paths can be exercised deterministically.
type Memory struct {
	mu     sync.Mutex
	tables map[string][][]string
	faults []error
}

// NewMemory creates an empty store. Tables must be created with
// CreateTable before use, mirroring a spreadsheet that is provisioned
// ahead of the event.
func NewMemory() *Memory {
	return &Memory{tables: make(map[string][][]string)}
}

// CreateTable provisions a table with the given header row.
func (m *Memory) CreateTable(name string, header []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[name] = [][]string{append([]string(nil), header...)}
}

// FailNext queues errors to be returned by the next operations, one
// error per call, before the operation touches any data.
func (m *Memory) FailNext(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faults = append(m.faults, errs...)
}

func (m *Memory) takeFault() error {
	if len(m.faults) == 0 {
		return nil
	}
	err := m.faults[0]
	m.faults = m.faults[1:]
	return err
}

func (m *Memory) ListRows(ctx context.Context, table string) ([][]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault(); err != nil {
		return nil, err
	}
	grid, ok := m.tables[table]
	if !ok {
		return nil, ErrTableNotFound
	}
	rows := make([][]string, 0, len(grid)-1)
	for _, r := range grid[1:] {
		rows = append(rows, append([]string(nil), r...))
	}
	return rows, nil
}

func (m *Memory) AppendRow(ctx context.Context, table string, cells []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault(); err != nil {
		return err
	}
	grid, ok := m.tables[table]
	if !ok {
		return ErrTableNotFound
	}
	m.tables[table] = append(grid, append([]string(nil), cells...))
	return nil
}

func (m *Memory) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault(); err != nil {
		return err
	}
	grid, ok := m.tables[table]
	if !ok {
		return ErrTableNotFound
	}
	if row < 1 || row > len(grid) {
		return ErrRowNotFound
	}
	cells := grid[row-1]
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	grid[row-1] = cells
	return nil
}

func (m *Memory) DeleteRow(ctx context.Context, table string, row int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault(); err != nil {
		return err
	}
	grid, ok := m.tables[table]
	if !ok {
		return ErrTableNotFound
	}
	if row < 1 || row > len(grid) {
		return ErrRowNotFound
	}
	m.tables[table] = append(grid[:row-1], grid[row:]...)
	return nil
}

func (m *Memory) FindRow(ctx context.Context, table string, match string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.takeFault(); err != nil {
		return 0, err
	}
	grid, ok := m.tables[table]
	if !ok {
		return 0, ErrTableNotFound
	}
	for i, r := range grid[1:] {
		if len(r) > 0 && r[0] == match {
			return i + 2, nil
		}
	}
	return 0, ErrRowNotFound
}
