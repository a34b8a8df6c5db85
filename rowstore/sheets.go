package rowstore

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets is the production Store driver, one spreadsheet per event with
// one tab per table. All cells are written raw so the sheet keeps the
// exact strings the codecs produce.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string

	mu       sync.Mutex
	sheetIDs map[string]int64 // tab title -> numeric sheet id
}

// NewSheets opens the spreadsheet with a service-account key file.
func NewSheets(ctx context.Context, spreadsheetID, credentialsFile string) (*Sheets, error) {
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("rowstore: open sheets service: %w", err)
	}
	return &Sheets{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetIDs:      make(map[string]int64),
	}, nil
}

func (s *Sheets) ListRows(ctx context.Context, table string) ([][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, table).
		Context(ctx).Do()
	if err != nil {
		return nil, s.remoteErr("list", table, err)
	}
	if len(resp.Values) == 0 {
		return nil, ErrTableNotFound
	}
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := make([]string, len(raw))
		for i, cell := range raw {
			row[i] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Sheets) AppendRow(ctx context.Context, table string, cells []string) error {
	values := make([]interface{}, len(cells))
	for i, c := range cells {
		values[i] = c
	}
	_, err := s.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, table, &sheets.ValueRange{Values: [][]interface{}{values}}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return s.remoteErr("append", table, err)
	}
	return nil
}

func (s *Sheets) UpdateCell(ctx context.Context, table string, row, col int, value string) error {
	rng := fmt.Sprintf("%s!%s%d", table, columnName(col), row)
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return s.remoteErr("update", table, err)
	}
	return nil
}

func (s *Sheets) DeleteRow(ctx context.Context, table string, row int) error {
	sheetID, err := s.sheetID(ctx, table)
	if err != nil {
		return err
	}
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	_, err = s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return s.remoteErr("delete", table, err)
	}
	return nil
}

func (s *Sheets) FindRow(ctx context.Context, table string, match string) (int, error) {
	rows, err := s.ListRows(ctx, table)
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

// sheetID resolves a tab title to its numeric id, cached for the
// process lifetime; tabs are provisioned before the event starts.
func (s *Sheets) sheetID(ctx context.Context, table string) (int64, error) {
	s.mu.Lock()
	if id, ok := s.sheetIDs[table]; ok {
		s.mu.Unlock()
		return id, nil
	}
	s.mu.Unlock()

	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, s.remoteErr("meta", table, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			s.sheetIDs[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	id, ok := s.sheetIDs[table]
	if !ok {
		return 0, ErrTableNotFound
	}
	return id, nil
}

func (s *Sheets) remoteErr(op, table string, err error) error {
	transient := true
	if ge, ok := err.(*googleapi.Error); ok {
		switch ge.Code {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusBadRequest:
			transient = false
		case http.StatusTooManyRequests:
			transient = true
		default:
			transient = ge.Code >= 500
		}
	}
	return &RemoteError{Op: op, Table: table, Transient: transient, Err: err}
}

// columnName converts a 1-based column index to A1 notation.
func columnName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+col%26)) + name
		col /= 26
	}
	return name
}
