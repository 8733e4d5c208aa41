package delivery

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "요약"
	detailSheet  = "상세"
)

var (
	summaryHeaders = []string{"시장", "품목", "건수", "수량", "운임료", "비고"}
	detailHeaders  = []string{"시장", "품목", "생산자", "품종", "규격", "수량", "지역"}
)

// BuildLedger writes the day's groups as an xlsx workbook with a summary and a detail sheet.
func BuildLedger(date string, groups []GroupSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, fmt.Errorf("create detail sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F0F0F0"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetCellValue(summarySheet, "A1", "출하일 "+date); err != nil {
		return nil, err
	}
	if err := writeRow(f, summarySheet, 2, toAny(summaryHeaders)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "A2", "F2", headerStyle); err != nil {
		return nil, err
	}

	row := 3
	grand := 0
	for _, g := range groups {
		note := ""
		if len(g.Warnings) > 0 {
			note = g.Warnings[0]
		}
		values := []any{g.Market, g.ProductType, len(g.Records), g.TotalQuantity(), g.Fees.GrandTotal, note}
		if err := writeRow(f, summarySheet, row, values); err != nil {
			return nil, err
		}
		grand += g.Fees.GrandTotal
		row++
	}
	if err := writeRow(f, summarySheet, row, []any{"합계", "", "", "", grand}); err != nil {
		return nil, err
	}

	if err := writeRow(f, detailSheet, 1, toAny(detailHeaders)); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(detailSheet, "A1", "G1", headerStyle); err != nil {
		return nil, err
	}
	row = 2
	for _, g := range groups {
		for _, r := range g.Records {
			values := []any{g.Market, g.ProductType, r.ProducerName, string(r.VarietyValue()), r.BoxWeightValue(), r.Quantity, r.Region}
			if err := writeRow(f, detailSheet, row, values); err != nil {
				return nil, err
			}
			row++
		}
	}

	_ = f.SetColWidth(summarySheet, "A", "B", 18)
	_ = f.SetColWidth(summarySheet, "F", "F", 40)
	_ = f.SetColWidth(detailSheet, "A", "C", 16)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
