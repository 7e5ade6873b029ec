package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/lmendez/inventario/internal/config"
)

// ErrSheetMissing is returned when the named worksheet does not exist in the
// spreadsheet. Read actions translate it into an empty result; write actions
// surface it as a failure.
var ErrSheetMissing = errors.New("sheet does not exist")

// Table defines the worksheet operations the store service needs. Row indexes
// are zero-based over the data rows, i.e. excluding the header row.
type Table interface {
	Rows(ctx context.Context, sheet string) ([][]any, error)
	Append(ctx context.Context, sheet string, row []any) error
	Update(ctx context.Context, sheet string, index int, row []any) error
	Delete(ctx context.Context, sheet string, index int) error
}

// GoogleSheetTable implements Table using the official Google Sheets API.
type GoogleSheetTable struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger

	mu       sync.Mutex
	sheetIDs map[string]int64
}

// NewGoogleSheetTable builds a Google Sheets backed Table instance.
func NewGoogleSheetTable(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetTable, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetTable{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
		sheetIDs:      make(map[string]int64),
	}, nil
}

// Rows fetches every data row below the header. Blank rows (empty first
// column) are skipped, matching how the spreadsheet is edited by hand.
func (t *GoogleSheetTable) Rows(ctx context.Context, sheet string) ([][]any, error) {
	if sheet == "" {
		return nil, fmt.Errorf("sheet name must not be empty")
	}

	resp, err := t.service.Spreadsheets.Values.Get(t.spreadsheetID, sheet).Context(ctx).Do()
	if err != nil {
		if isMissingSheet(err) {
			return nil, ErrSheetMissing
		}
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	rows := make([][]any, 0, len(resp.Values))
	for i, row := range resp.Values {
		if i == 0 {
			continue // header
		}
		if len(row) == 0 || row[0] == "" || row[0] == nil {
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Append adds the provided values below the last data row of the sheet.
func (t *GoogleSheetTable) Append(ctx context.Context, sheet string, row []any) error {
	if sheet == "" {
		return fmt.Errorf("sheet name must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]any{row}}

	call := t.service.Spreadsheets.Values.Append(t.spreadsheetID, sheet, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		if isMissingSheet(err) {
			return ErrSheetMissing
		}
		return fmt.Errorf("append row into sheet %s: %w", sheet, err)
	}

	t.logger.Debug("row appended", zap.String("sheet", sheet))
	return nil
}

// Update overwrites the data row at the given index.
func (t *GoogleSheetTable) Update(ctx context.Context, sheet string, index int, row []any) error {
	if index < 0 {
		return fmt.Errorf("row index must not be negative")
	}

	// Data row index + 1 for the header + 1 for one-based A1 notation.
	target := fmt.Sprintf("%s!A%d", sheet, index+2)
	payload := &sheetsapi.ValueRange{Values: [][]any{row}}

	call := t.service.Spreadsheets.Values.Update(t.spreadsheetID, target, payload).
		ValueInputOption("USER_ENTERED").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		if isMissingSheet(err) {
			return ErrSheetMissing
		}
		return fmt.Errorf("update row %d in sheet %s: %w", index, sheet, err)
	}

	t.logger.Debug("row updated", zap.String("sheet", sheet), zap.Int("index", index))
	return nil
}

// Delete removes the data row at the given index.
func (t *GoogleSheetTable) Delete(ctx context.Context, sheet string, index int) error {
	if index < 0 {
		return fmt.Errorf("row index must not be negative")
	}

	sheetID, err := t.sheetID(ctx, sheet)
	if err != nil {
		return err
	}

	req := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			DeleteDimension: &sheetsapi.DeleteDimensionRequest{
				Range: &sheetsapi.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(index + 1), // +1 header offset
					EndIndex:   int64(index + 2),
				},
			},
		}},
	}

	if _, err := t.service.Spreadsheets.BatchUpdate(t.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("delete row %d in sheet %s: %w", index, sheet, err)
	}

	t.logger.Debug("row deleted", zap.String("sheet", sheet), zap.Int("index", index))
	return nil
}

func (t *GoogleSheetTable) sheetID(ctx context.Context, sheet string) (int64, error) {
	t.mu.Lock()
	if id, ok := t.sheetIDs[sheet]; ok {
		t.mu.Unlock()
		return id, nil
	}
	t.mu.Unlock()

	resp, err := t.service.Spreadsheets.Get(t.spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("lookup sheet %s: %w", sheet, err)
	}

	for _, s := range resp.Sheets {
		if s.Properties != nil && s.Properties.Title == sheet {
			t.mu.Lock()
			t.sheetIDs[sheet] = s.Properties.SheetId
			t.mu.Unlock()
			return s.Properties.SheetId, nil
		}
	}

	return 0, ErrSheetMissing
}

// isMissingSheet recognizes the API error the Sheets backend returns for a
// range naming a worksheet that does not exist.
func isMissingSheet(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 400 && strings.Contains(apiErr.Message, "Unable to parse range")
	}
	return false
}
