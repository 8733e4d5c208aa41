package document

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mamadbah2/collection-desk/internal/domain/models"
)

// Page geometry in millimetres.
const (
	PageWidth  = 210.0
	PageHeight = 297.0
	Margin     = 15.0
	RowHeight  = 8.0

	// RowsPerColumn is the number of data rows on a note; two record columns share each row.
	RowsPerColumn = 10
	// Capacity is the number of records a single note can show.
	Capacity = RowsPerColumn * 2

	titleY      = 12.0
	tableTop    = 35.0
	cellPadding = 5.0
	feeLineH    = 6.0
)

// Font sizes in points.
const (
	titleSize  = 20.0
	headerSize = 13.0
	dataSize   = 12.0
	feeSize    = 11.0
	footerSize = 11.0
)

// columnRatios are the shares of the content width for one record column; the set repeats.
var columnRatios = [4]float64{0.125, 0.175, 0.10, 0.10}

var headers = [4]string{"생산자", "품명", "규격", "계"}

// Align is the horizontal alignment of text inside a cell.
type Align string

const (
	AlignLeft   Align = "L"
	AlignCenter Align = "C"
	AlignRight  Align = "R"
)

// Cell is a rectangle with optional border, fill and a single line of text.
type Cell struct {
	X, Y, W, H float64
	Text       string
	Size       float64
	Align      Align
	Padding    float64
	Border     bool
	Fill       bool
}

// Rule is a straight line segment.
type Rule struct {
	X1, Y1, X2, Y2 float64
}

// Page is a device-independent description of one delivery note.
type Page struct {
	Width, Height float64
	Cells         []Cell
	Rules         []Rule
	// Omitted counts records that did not fit the table.
	Omitted int
}

// TextPolicy prepares strings for the face that will draw them.
type TextPolicy interface {
	Text(s string) string
	Localized() bool
}

// Letterhead is the fixed text printed on every note.
type Letterhead struct {
	Title       string
	BranchLabel string
	AccountLine string
	CarrierName string
	PhoneLine   string
}

// Engine lays out delivery notes.
type Engine struct {
	letterhead Letterhead
	printer    *message.Printer
}

// NewEngine returns a layout engine printing letterhead on each page.
func NewEngine(letterhead Letterhead) *Engine {
	return &Engine{letterhead: letterhead, printer: message.NewPrinter(language.Korean)}
}

// Layout describes the page for group. It never fails on data: records past Capacity
// are left out and counted in Page.Omitted.
func (e *Engine) Layout(group models.DeliveryNoteGroup, fees models.FeeSummary, text TextPolicy) Page {
	p := Page{Width: PageWidth, Height: PageHeight}
	content := PageWidth - 2*Margin
	widths := columnWidths(content)

	p.Cells = append(p.Cells, Cell{
		X: Margin, Y: titleY, W: content, H: 12,
		Text: text.Text(e.letterhead.Title), Size: titleSize, Align: AlignCenter,
	})

	y := tableTop
	half := content / 2

	p.Cells = append(p.Cells,
		Cell{X: Margin, Y: y, W: half, H: RowHeight, Text: text.Text(e.shipDateLine(group.Date, text)),
			Size: headerSize, Align: AlignLeft, Padding: cellPadding, Border: true},
		Cell{X: Margin + half, Y: y, W: half, H: RowHeight, Text: text.Text(e.letterhead.BranchLabel),
			Size: headerSize, Align: AlignRight, Padding: cellPadding, Border: true},
	)
	y += RowHeight

	p.Cells = append(p.Cells, Cell{
		X: Margin, Y: y, W: content, H: RowHeight, Text: text.Text("수신: " + group.Market),
		Size: headerSize, Align: AlignLeft, Padding: cellPadding, Border: true,
	})
	y += RowHeight

	x := Margin
	for i := 0; i < len(widths); i++ {
		p.Cells = append(p.Cells, Cell{
			X: x, Y: y, W: widths[i], H: RowHeight, Text: text.Text(headers[i%4]),
			Size: headerSize, Align: AlignCenter, Border: true, Fill: true,
		})
		x += widths[i]
	}
	y += RowHeight

	records := group.Records
	if len(records) > Capacity {
		p.Omitted = len(records) - Capacity
		records = records[:Capacity]
	}

	for row := 0; row < RowsPerColumn; row++ {
		x = Margin
		for col := 0; col < 2; col++ {
			values := [4]string{}
			if idx := col*RowsPerColumn + row; idx < len(records) {
				values = recordCells(records[idx])
			}
			for i, v := range values {
				w := widths[col*4+i]
				if v != "" {
					v = text.Text(v)
				}
				p.Cells = append(p.Cells, Cell{
					X: x, Y: y, W: w, H: RowHeight, Text: v,
					Size: dataSize, Align: AlignCenter, Border: true,
				})
				x += w
			}
		}
		y += RowHeight
	}

	y += RowHeight / 2
	for _, line := range fees.Lines {
		p.Cells = append(p.Cells, Cell{
			X: Margin, Y: y, W: content, H: feeLineH, Text: e.feeLine(line, text),
			Size: feeSize, Align: AlignLeft, Padding: cellPadding,
		})
		y += feeLineH
	}
	p.Rules = append(p.Rules, Rule{X1: Margin, Y1: y + 1, X2: PageWidth - Margin, Y2: y + 1})
	y += 2
	p.Cells = append(p.Cells, Cell{
		X: Margin, Y: y, W: content, H: feeLineH, Text: e.totalLine(fees.GrandTotal, text),
		Size: feeSize, Align: AlignLeft, Padding: cellPadding,
	})

	footerY := PageHeight - Margin - RowHeight
	third := content / 3
	p.Rules = append(p.Rules, Rule{X1: Margin, Y1: footerY, X2: PageWidth - Margin, Y2: footerY})
	p.Cells = append(p.Cells,
		Cell{X: Margin, Y: footerY, W: third, H: RowHeight, Text: text.Text(e.letterhead.AccountLine),
			Size: footerSize, Align: AlignLeft},
		Cell{X: Margin + third, Y: footerY, W: third, H: RowHeight, Text: text.Text(e.letterhead.CarrierName),
			Size: footerSize, Align: AlignCenter},
		Cell{X: Margin + 2*third, Y: footerY, W: third, H: RowHeight, Text: text.Text(e.letterhead.PhoneLine),
			Size: footerSize, Align: AlignRight},
	)

	return p
}

func columnWidths(content float64) [8]float64 {
	var w [8]float64
	for i := range w {
		w[i] = content * columnRatios[i%4]
	}
	return w
}

// recordCells returns producer, product, spec and quantity for one table slot.
func recordCells(r models.CollectionRecord) [4]string {
	product := string(r.ProductType)
	if v := r.VarietyValue(); v != "" {
		product = fmt.Sprintf("%s(%s)", r.ProductType, v)
	}

	spec := r.BoxWeightValue()
	if r.IsPremiumPerilla() {
		spec = "-"
	}

	return [4]string{r.ProducerName, product, spec, fmt.Sprintf("%d", r.Quantity)}
}

func (e *Engine) shipDateLine(date string, text TextPolicy) string {
	if !text.Localized() {
		return "출하일시: " + date
	}
	d, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return "출하일시: " + date
	}
	return fmt.Sprintf("출하일시: %d년 %02d월 %02d일", d.Year(), int(d.Month()), d.Day())
}

var unitNames = map[string]string{"장": "sheets", "박스": "box"}

func (e *Engine) feeLine(line models.ShippingCalculation, text TextPolicy) string {
	if text.Localized() {
		return e.printer.Sprintf("%s: %d%s × %d원 = %d원",
			line.Label, line.Quantity, line.Unit(), line.UnitRate, line.Total)
	}
	return e.printer.Sprintf("%s: %d %s × %d KRW = %d KRW",
		text.Text(line.Label), line.Quantity, unitNames[line.Unit()], line.UnitRate, line.Total)
}

func (e *Engine) totalLine(total int, text TextPolicy) string {
	if text.Localized() {
		return e.printer.Sprintf("총 운임료: %d원", total)
	}
	return e.printer.Sprintf("%s: %d KRW", text.Text("총 운임료"), total)
}
