package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/collection-desk/internal/config"
	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

func TestShipmentRows(t *testing.T) {
	report := models.DailyShipmentReport{
		Date: "2026-10-19",
		Lines: []models.DailyShipmentLine{
			{Market: "부산청과", ProductType: "사과", RecordCount: 2, TotalQuantity: 5, FeeTotal: 5000},
			{Market: "항도청과", ProductType: "깻잎", RecordCount: 1, TotalQuantity: 40, FeeTotal: 24000},
		},
	}

	rows := ShipmentRows(report)
	assert.Equal(t, [][]interface{}{
		{"2026-10-19", "부산청과", "사과", 2, 5, 5000},
		{"2026-10-19", "항도청과", "깻잎", 1, 40, 24000},
	}, rows)

	assert.Empty(t, ShipmentRows(models.DailyShipmentReport{Date: "2026-10-19"}))
}

func TestNewGoogleSheetLedgerRequiresConfig(t *testing.T) {
	_, err := NewGoogleSheetLedger(context.Background(), config.SheetsConfig{}, nil)
	assert.Error(t, err)
}
