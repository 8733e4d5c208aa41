package document

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/fonts"
)

type identity struct{}

func (identity) Text(s string) string { return s }
func (identity) Localized() bool      { return true }

func testLetterhead() Letterhead {
	return Letterhead{
		Title:       "송 품 장",
		BranchLabel: "밀양산내지소",
		AccountLine: "계좌번호: 농협 356-0724-8964-13 (강민준)",
		CarrierName: "강민준 기사",
		PhoneLine:   "H.P : 010-3444-8853",
	}
}

func strptr(s string) *string { return &s }

func variety(v models.Variety) *models.Variety { return &v }

func records(n int) []models.CollectionRecord {
	out := make([]models.CollectionRecord, n)
	for i := range out {
		out[i] = models.CollectionRecord{
			ProducerName: fmt.Sprintf("P%02d", i),
			ProductType:  models.ProductApple,
			Quantity:     i + 1,
			BoxWeight:    strptr("10kg"),
		}
	}
	return out
}

func texts(p Page) []string {
	out := make([]string, 0, len(p.Cells))
	for _, c := range p.Cells {
		out = append(out, c.Text)
	}
	return out
}

func findCell(t *testing.T, p Page, text string) Cell {
	t.Helper()
	for _, c := range p.Cells {
		if c.Text == text {
			return c
		}
	}
	t.Fatalf("cell %q not found", text)
	return Cell{}
}

func TestLayoutFillsDownThenAcross(t *testing.T) {
	group := models.DeliveryNoteGroup{Market: "부산청과", ProductType: "사과", Date: "2026-10-19", Records: records(12)}
	page := NewEngine(testLetterhead()).Layout(group, models.FeeSummary{}, identity{})

	first := findCell(t, page, "P00")
	tenth := findCell(t, page, "P09")
	eleventh := findCell(t, page, "P10")

	assert.Equal(t, Margin, first.X)
	assert.Equal(t, first.X, tenth.X)
	assert.InDelta(t, first.Y+9*RowHeight, tenth.Y, 0.001)
	assert.Equal(t, first.Y, eleventh.Y)
	assert.InDelta(t, Margin+(PageWidth-2*Margin)/2, eleventh.X, 0.001)
	assert.Zero(t, page.Omitted)
}

func TestLayoutTruncatesPastCapacity(t *testing.T) {
	group := models.DeliveryNoteGroup{Market: "부산청과", ProductType: "사과", Date: "2026-10-19", Records: records(25)}
	page := NewEngine(testLetterhead()).Layout(group, models.FeeSummary{}, identity{})

	all := strings.Join(texts(page), "|")
	assert.Contains(t, all, "P19")
	assert.NotContains(t, all, "P20")
	assert.Equal(t, 5, page.Omitted)
}

func TestLayoutHeaderAndInfoRows(t *testing.T) {
	group := models.DeliveryNoteGroup{Market: "항도청과", ProductType: "감", Date: "2026-10-19"}
	page := NewEngine(testLetterhead()).Layout(group, models.FeeSummary{}, identity{})

	assert.Equal(t, AlignCenter, findCell(t, page, "송 품 장").Align)
	assert.Equal(t, AlignLeft, findCell(t, page, "출하일시: 2026년 10월 19일").Align)
	assert.Equal(t, AlignRight, findCell(t, page, "밀양산내지소").Align)
	findCell(t, page, "수신: 항도청과")

	var header []Cell
	for _, c := range page.Cells {
		if c.Fill {
			header = append(header, c)
		}
	}
	require.Len(t, header, 8)
	assert.Equal(t, "생산자", header[0].Text)
	assert.Equal(t, "계", header[7].Text)
	assert.InDelta(t, 22.5, header[0].W, 0.001)
	assert.InDelta(t, 31.5, header[1].W, 0.001)
	assert.InDelta(t, 18, header[2].W, 0.001)

	footer := findCell(t, page, "H.P : 010-3444-8853")
	assert.Equal(t, AlignRight, footer.Align)
	assert.InDelta(t, PageHeight-Margin-RowHeight, footer.Y, 0.001)
}

func TestLayoutRecordCells(t *testing.T) {
	group := models.DeliveryNoteGroup{
		Market: "중앙청과", ProductType: "깻잎", Date: "2026-10-19",
		Records: []models.CollectionRecord{
			{ProducerName: "김", ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyPremium), Quantity: 40},
			{ProducerName: "이", ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyLoose), Quantity: 3, BoxWeight: strptr("5kg")},
		},
	}
	page := NewEngine(testLetterhead()).Layout(group, models.FeeSummary{}, identity{})
	all := strings.Join(texts(page), "|")

	assert.Contains(t, all, "김|깻잎(정품)|-|40")
	assert.Contains(t, all, "이|깻잎(바라)|5kg|3")
}

func TestLayoutFeeSummary(t *testing.T) {
	fees := models.FeeSummary{
		Lines: []models.ShippingCalculation{
			{ProductType: models.ProductApple, Key: "10kg", Quantity: 12, UnitRate: 1000, Total: 12000, Label: "사과 10kg"},
			{ProductType: models.ProductApple, Key: "5kg", Quantity: 3, UnitRate: 600, Total: 1800, Label: "사과 5kg"},
		},
		GrandTotal: 13800,
	}
	group := models.DeliveryNoteGroup{Market: "부산청과", ProductType: "사과", Date: "2026-10-19"}
	page := NewEngine(testLetterhead()).Layout(group, fees, identity{})

	findCell(t, page, "사과 10kg: 12박스 × 1,000원 = 12,000원")
	findCell(t, page, "사과 5kg: 3박스 × 600원 = 1,800원")
	total := findCell(t, page, "총 운임료: 13,800원")
	require.NotEmpty(t, page.Rules)
	assert.Greater(t, total.Y, page.Rules[0].Y1)
}

func TestLayoutWithBuiltinFace(t *testing.T) {
	fees := models.FeeSummary{
		Lines: []models.ShippingCalculation{
			{ProductType: models.ProductPerillaLeaf, Key: "정품", Quantity: 40, UnitRate: 600, Total: 24000, Label: "깻잎 정품"},
		},
		GrandTotal: 24000,
	}
	group := models.DeliveryNoteGroup{
		Market: "부산청과", ProductType: "깻잎", Date: "2026-10-19",
		Records: []models.CollectionRecord{
			{ProducerName: "홍길동", ProductType: models.ProductPerillaLeaf, Variety: variety(models.VarietyPremium), Quantity: 40},
		},
	}
	page := NewEngine(testLetterhead()).Layout(group, fees, fonts.Builtin())

	for _, s := range texts(page) {
		assert.False(t, fonts.ContainsHangul(s), s)
	}
	findCell(t, page, "DELIVERY NOTE")
	findCell(t, page, "Delivery Date: 2026-10-19")
	findCell(t, page, "To: Busan Cheonggwa")
	findCell(t, page, "Perilla Leaf Premium: 40 sheets × 600 KRW = 24,000 KRW")
	findCell(t, page, "Total Fee: 24,000 KRW")
	findCell(t, page, "Driver: Min Jun Kang")
	findCell(t, page, "Perilla Leaf(Premium)")
	findCell(t, page, "N/A")
}
