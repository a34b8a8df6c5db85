package rowstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
)

// GridRow persists one data row of one table. Position is the 1-based
// sheet row number (data starts at 2, row 1 being the conceptual
// header), kept so the Store contract stays identical across drivers.
type GridRow struct {
	gorm.Model
	Sheet    string `gorm:"not null;index:idx_sheet_position"`
	Position int    `gorm:"not null;index:idx_sheet_position"`
	Cells    string `gorm:"not null"` // JSON-encoded []string
}

// Gorm serves the Store interface from a relational database, the
// substitution path for moving off the spreadsheet without touching the
// checkout contract. Tables must be declared up front; a spreadsheet has
// a fixed set of tabs and this driver mirrors that.
type Gorm struct {
	db     *gorm.DB
	tables map[string]bool
}

// OpenGorm connects to Postgres and migrates the grid schema.
func OpenGorm(connectionString string, tables []string) (*Gorm, error) {
	db, err := gorm.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("rowstore: connect database: %w", err)
	}
	db.AutoMigrate(&GridRow{})

	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t] = true
	}
	return &Gorm{db: db, tables: known}, nil
}

// Close releases the underlying connection.
func (g *Gorm) Close() error { return g.db.Close() }

func (g *Gorm) ListRows(ctx context.Context, table string) ([][]string, error) {
	if !g.tables[table] {
		return nil, ErrTableNotFound
	}
	var records []GridRow
	if err := g.db.Where("sheet = ?", table).Order("position").Find(&records).Error; err != nil {
		return nil, g.remoteErr("list", table, err)
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		var cells []string
		if err := json.Unmarshal([]byte(rec.Cells), &cells); err != nil {
			return nil, g.remoteErr("list", table, err)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func (g *Gorm) AppendRow(ctx context.Context, table string, cells []string) error {
	if !g.tables[table] {
		return ErrTableNotFound
	}
	encoded, err := json.Marshal(cells)
	if err != nil {
		return g.remoteErr("append", table, err)
	}
	var max struct{ N int }
	row := g.db.Raw(
		"SELECT COALESCE(MAX(position), 1) AS n FROM grid_rows WHERE sheet = ? AND deleted_at IS NULL",
		table,
	).Row()
	if err := row.Scan(&max.N); err != nil {
		return g.remoteErr("append", table, err)
	}
	rec := GridRow{Sheet: table, Position: max.N + 1, Cells: string(encoded)}
	if err := g.db.Create(&rec).Error; err != nil {
		return g.remoteErr("append", table, err)
	}
	return nil
}

func (g *Gorm) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	if !g.tables[table] {
		return ErrTableNotFound
	}
	var rec GridRow
	err := g.db.Where("sheet = ? AND position = ?", table, row).First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		return ErrRowNotFound
	}
	if err != nil {
		return g.remoteErr("update", table, err)
	}
	var cells []string
	if err := json.Unmarshal([]byte(rec.Cells), &cells); err != nil {
		return g.remoteErr("update", table, err)
	}
	for len(cells) < col {
		cells = append(cells, "")
	}
	cells[col-1] = value
	encoded, err := json.Marshal(cells)
	if err != nil {
		return g.remoteErr("update", table, err)
	}
	if err := g.db.Model(&rec).Update("cells", string(encoded)).Error; err != nil {
		return g.remoteErr("update", table, err)
	}
	return nil
}

func (g *Gorm) DeleteRow(ctx context.Context, table string, row int) error {
	if !g.tables[table] {
		return ErrTableNotFound
	}
	var rec GridRow
	err := g.db.Where("sheet = ? AND position = ?", table, row).First(&rec).Error
	if gorm.IsRecordNotFoundError(err) {
		return ErrRowNotFound
	}
	if err != nil {
		return g.remoteErr("delete", table, err)
	}

	tx := g.db.Begin()
	if err := tx.Delete(&rec).Error; err != nil {
		tx.Rollback()
		return g.remoteErr("delete", table, err)
	}
	// Shift later rows up so positions stay sheet-like.
	if err := tx.Model(&GridRow{}).
		Where("sheet = ? AND position > ?", table, row).
		Update("position", gorm.Expr("position - 1")).Error; err != nil {
		tx.Rollback()
		return g.remoteErr("delete", table, err)
	}
	tx.Commit()
	return nil
}

func (g *Gorm) FindRow(ctx context.Context, table string, match string) (int, error) {
	rows, err := g.ListRows(ctx, table)
	if err != nil {
		return 0, err
	}
	for i, r := range rows {
		if len(r) > 0 && r[0] == match {
			return i + 2, nil
		}
	}
	return 0, ErrRowNotFound
}

func (g *Gorm) remoteErr(op, table string, err error) error {
	return &RemoteError{Op: op, Table: table, Transient: true, Err: err}
}
