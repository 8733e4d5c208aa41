package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/mamadbah2/collection-desk/internal/fonts"
)

const minTextSize = 7.0

// Renderer draws Page descriptions as PDF.
type Renderer struct {
	creator string
}

// NewRenderer returns a PDF renderer. creator ends up in the document metadata.
func NewRenderer(creator string) *Renderer {
	return &Renderer{creator: creator}
}

// Render writes page as a single-page A4 PDF drawn with face.
func (r *Renderer) Render(w io.Writer, page Page, face *fonts.Face) error {
	if face == nil {
		face = fonts.Builtin()
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(Margin, Margin, Margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCreator(r.creator, true)

	encode := func(s string) string { return s }
	if face.Localized() {
		if err := fonts.Validate(face.Data); err != nil {
			return fmt.Errorf("font %s: %w", face.Family, err)
		}
		pdf.AddUTF8FontFromBytes(face.Family, "", face.Data)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("register font %s: %w", face.Family, err)
		}
	} else {
		encode = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.AddPage()
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetLineWidth(0.2)

	for _, c := range page.Cells {
		switch {
		case c.Border && c.Fill:
			pdf.Rect(c.X, c.Y, c.W, c.H, "FD")
		case c.Fill:
			pdf.Rect(c.X, c.Y, c.W, c.H, "F")
		case c.Border:
			pdf.Rect(c.X, c.Y, c.W, c.H, "D")
		}

		if c.Text == "" {
			continue
		}

		txt := encode(c.Text)
		width := c.W - 2*c.Padding
		size := c.Size
		pdf.SetFont(face.Family, "", size)
		for size > minTextSize && pdf.GetStringWidth(txt) > width {
			size -= 0.5
			pdf.SetFontSize(size)
		}

		pdf.SetXY(c.X+c.Padding, c.Y)
		pdf.CellFormat(width, c.H, txt, "", 0, string(c.Align)+"M", false, 0, "")
	}

	for _, rule := range page.Rules {
		pdf.Line(rule.X1, rule.Y1, rule.X2, rule.Y2)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// RenderBytes is Render into a fresh buffer.
func (r *Renderer) RenderBytes(page Page, face *fonts.Face) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, page, face); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
