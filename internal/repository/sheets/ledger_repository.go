package sheets

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/collection-desk/internal/config"
	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

// Ledger mirrors daily shipment totals into a spreadsheet.
type Ledger interface {
	AppendShipments(ctx context.Context, report models.DailyShipmentReport) error
}

// GoogleSheetLedger implements Ledger using the official Google Sheets API.
type GoogleSheetLedger struct {
	service       *sheetsapi.Service
	spreadsheetID string
	sheetRange    string
	logger        *zap.Logger
}

// NewGoogleSheetLedger builds a Google Sheets backed ledger.
func NewGoogleSheetLedger(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetLedger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled() {
		return nil, errors.New("google sheets ledger is not configured")
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetLedger{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		sheetRange:    cfg.LedgerRange,
		logger:        logger,
	}, nil
}

// AppendShipments appends one row per group of report.
func (l *GoogleSheetLedger) AppendShipments(ctx context.Context, report models.DailyShipmentReport) error {
	rows := ShipmentRows(report)
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{Values: rows}
	call := l.service.Spreadsheets.Values.Append(l.spreadsheetID, l.sheetRange, payload).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append rows into range %s: %w", l.sheetRange, err)
	}

	l.logger.Debug("shipment rows appended to sheet", zap.String("range", l.sheetRange), zap.Int("rows", len(rows)))
	return nil
}

// ShipmentRows converts a report into sheet rows: date, market, product, records, quantity, fee.
func ShipmentRows(report models.DailyShipmentReport) [][]interface{} {
	rows := make([][]interface{}, 0, len(report.Lines))
	for _, line := range report.Lines {
		rows = append(rows, []interface{}{
			report.Date,
			line.Market,
			line.ProductType,
			line.RecordCount,
			line.TotalQuantity,
			line.FeeTotal,
		})
	}
	return rows
}
