// Package export mirrors finished months into a Google Spreadsheet so the
// numbers survive outside the database.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"dailyspend/internal/config"
	"dailyspend/internal/core"
)

// MonthExporter writes one month of ledger data to an external destination.
type MonthExporter interface {
	ExportMonth(ctx context.Context, year, month int, txns []core.Transaction, sum core.MonthSummary) error
}

// SheetsExporter renders each month as its own tab: a transaction table
// followed by the summary block. Re-exports overwrite the tab in place.
type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string
}

var _ MonthExporter = (*SheetsExporter)(nil)

// NewSheetsExporter builds a Sheets client from service account credentials.
// Inline JSON wins over a credentials file when both are configured.
func NewSheetsExporter(ctx context.Context, cfg *config.Config) (*SheetsExporter, error) {
	if strings.TrimSpace(cfg.GoogleSpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	var credentialsJSON []byte
	switch {
	case cfg.GoogleCredentialsJSON != "":
		credentialsJSON = []byte(cfg.GoogleCredentialsJSON)
	case cfg.GoogleCredentialsFile != "":
		data, err := os.ReadFile(cfg.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		credentialsJSON = data
	default:
		return nil, errors.New("missing service account credentials")
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		sheetBase:     cfg.GoogleSheetName,
	}, nil
}

// sheetName returns the tab for a given month, e.g. "DailySpend 2025-03".
func (e *SheetsExporter) sheetName(year, month int) string {
	return fmt.Sprintf("%s %04d-%02d", e.sheetBase, year, month)
}

func (e *SheetsExporter) ExportMonth(ctx context.Context, year, month int, txns []core.Transaction, sum core.MonthSummary) error {
	if e.svc == nil {
		return errors.New("sheets service not initialized")
	}
	name := e.sheetName(year, month)

	if err := e.ensureSheet(ctx, name); err != nil {
		return err
	}

	clearRange := fmt.Sprintf("%s!A:F", name)
	if _, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	values := [][]any{
		{"Date", "Type", "Category", "Amount", "Method", "Note"},
	}
	for _, t := range txns {
		values = append(values, []any{
			t.TxnDate.String(),
			string(t.Type),
			t.CategoryName,
			float64(t.Amount.Cents) / 100.0,
			t.Method,
			t.Note,
		})
	}
	values = append(values,
		[]any{},
		[]any{"Total spend", float64(sum.TotalSpend.Cents) / 100.0},
		[]any{"Total income", float64(sum.TotalIncome.Cents) / 100.0},
		[]any{"Net", float64(sum.Net.Cents) / 100.0},
	)

	writeRange := fmt.Sprintf("%s!A1", name)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := e.svc.Spreadsheets.Values.Update(e.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", writeRange, err)
	}
	return nil
}

// ensureSheet adds the tab if the spreadsheet does not have it yet.
func (e *SheetsExporter) ensureSheet(ctx context.Context, name string) error {
	doc, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sh := range doc.Sheets {
		if sh.Properties != nil && sh.Properties.Title == name {
			return nil
		}
	}
	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{
				Properties: &gsheet.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", name, err)
	}
	return nil
}
