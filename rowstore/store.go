// Package rowstore abstracts the remote row store the POS persists to.
// The production driver talks to a Google Spreadsheet; a gorm driver
// serves the same interface from Postgres, and a memory driver backs the
// tests. Tables are grids of string cells with row 1 as the header; row
// and column indexes in this API are 1-based, matching how the sheet UI
// numbers them.
package rowstore

import (
	"context"
	"errors"
	"fmt"
)

// Store is the backing row store. Implementations must return
// ErrTableNotFound for unknown tables and ErrRowNotFound for
// out-of-range rows, and should wrap remote failures in *RemoteError so
// callers can classify them for retry.
type Store interface {
	// ListRows returns all data rows of a table, header excluded.
	ListRows(ctx context.Context, table string) ([][]string, error)
	// AppendRow adds one row after the last data row.
	AppendRow(ctx context.Context, table string, cells []string) error
	// UpdateCell overwrites a single cell. Row 1 is the header.
	UpdateCell(ctx context.Context, table string, row, col int, value string) error
	// DeleteRow removes one row, shifting later rows up.
	DeleteRow(ctx context.Context, table string, row int) error
	// FindRow returns the 1-based index of the first data row whose
	// first cell equals match, or ErrRowNotFound.
	FindRow(ctx context.Context, table string, match string) (int, error)
}

var (
	ErrTableNotFound = errors.New("rowstore: table not found")
	ErrRowNotFound   = errors.New("rowstore: row not found")
)

// RemoteError wraps a failure from the backing store with a
// retryability classification. Network and rate-limit failures are
// transient; auth and not-found failures are permanent.
type RemoteError struct {
	Op        string
	Table     string
	Transient bool
	Err       error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("rowstore: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// IsTransient reports whether err is a remote failure worth retrying.
func IsTransient(err error) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Transient
}
