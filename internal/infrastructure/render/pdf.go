package render

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

const (
	pdfMargin       = 15.0
	pdfBottomMargin = 20.0
	pdfLineHeight   = 5.0
)

var pdfItemWidths = map[int][]float64{
	8: {10, 58, 14, 20, 14, 22, 18, 24},
	9: {10, 44, 13, 19, 13, 20, 17, 23, 21},
}

// PDFConfig contains configuration for the gofpdf renderer
type PDFConfig struct {
	// DisableCompression writes uncompressed page streams
	DisableCompression bool
	Logger             *zap.Logger
}

// PDFRenderer paints a paginated A4 portrait document with gofpdf
type PDFRenderer struct {
	config PDFConfig
	logger *zap.Logger
}

// NewPDFRenderer creates a PDF renderer
func NewPDFRenderer(config PDFConfig) *PDFRenderer {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PDFRenderer{config: config, logger: logger}
}

// Format returns FormatPDF
func (r *PDFRenderer) Format() Format {
	return FormatPDF
}

// Render paints the layout into a PDF document
func (r *PDFRenderer) Render(ctx context.Context, layout *Layout) (*Artifact, error) {
	if err := checkLayout(layout); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfBottomMargin)
	pdf.SetCompression(!r.config.DisableCompression)
	pdf.AliasNbPages("{nb}")

	p := &pdfPainter{
		pdf:    pdf,
		layout: layout,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		logger: r.logger,
	}
	p.widths = pdfItemWidths[len(layout.Columns)]
	if p.widths == nil {
		return nil, NewRenderError(ErrCodeInvalidLayout, fmt.Sprintf("unsupported column count %d", len(layout.Columns)), nil)
	}

	pdf.SetTitle(layout.Title+" "+layout.Number, true)
	pdf.SetCreator(layout.Company.Name, true)
	pdf.SetHeaderFunc(p.pageHeader)
	pdf.SetFooterFunc(p.pageFooter)

	pdf.AddPage()
	p.header()
	p.counterparty()
	p.items()
	p.totals()
	p.text()
	p.signatures()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeWriteFailed, "failed to write PDF", err)
	}

	r.logger.Debug("PDF rendered",
		zap.String("number", layout.Number),
		zap.Int("items", len(layout.Items)),
		zap.Int("pages", pdf.PageNo()),
		zap.Int("bytes", buf.Len()))

	return newArtifact(layout, FormatPDF, buf.Bytes()), nil
}

type pdfPainter struct {
	pdf     *gofpdf.Fpdf
	layout  *Layout
	tr      func(string) string
	logger  *zap.Logger
	widths  []float64
	inTable bool
	images  int
}

func (p *pdfPainter) contentWidth() float64 {
	w, _ := p.pdf.GetPageSize()
	return w - 2*pdfMargin
}

// pageHeader runs on every new page; continuation pages repeat the table header
func (p *pdfPainter) pageHeader() {
	if p.pdf.PageNo() <= 1 {
		return
	}
	p.pdf.SetFont("Helvetica", "I", 8)
	p.pdf.SetTextColor(89, 89, 89)
	p.pdf.CellFormat(0, 5, p.tr(p.layout.Title+" "+p.layout.Number), "", 1, "R", false, 0, "")
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.Ln(2)
	if p.inTable {
		p.tableHeader()
	}
}

func (p *pdfPainter) pageFooter() {
	p.pdf.SetY(-15)
	p.pdf.SetFont("Helvetica", "I", 8)
	p.pdf.SetTextColor(89, 89, 89)
	if p.layout.FooterText != "" {
		p.pdf.CellFormat(0, 4, p.tr(p.layout.FooterText), "", 1, "C", false, 0, "")
	}
	p.pdf.CellFormat(0, 4, fmt.Sprintf("Page %d/{nb}", p.pdf.PageNo()), "", 0, "C", false, 0, "")
	p.pdf.SetTextColor(0, 0, 0)
}

func (p *pdfPainter) header() {
	top := p.pdf.GetY()
	textX := pdfMargin
	leftBottom := top

	if w, h, ok := p.image(p.layout.Images.Logo, pdfMargin, top, 35, 20); ok {
		textX += w + 4
		leftBottom = top + h
	}

	half := p.contentWidth() / 2
	p.pdf.SetXY(textX, top)
	p.pdf.SetFont("Helvetica", "B", 14)
	p.pdf.CellFormat(half-(textX-pdfMargin), 7, p.tr(p.layout.Company.Name), "", 2, "L", false, 0, "")
	p.pdf.SetFont("Helvetica", "", 9)
	for _, line := range p.layout.Company.Lines {
		p.pdf.SetX(textX)
		p.pdf.CellFormat(half-(textX-pdfMargin), 4.5, p.tr(line), "", 2, "L", false, 0, "")
	}
	if y := p.pdf.GetY(); y > leftBottom {
		leftBottom = y
	}

	rightX := pdfMargin + half
	p.pdf.SetXY(rightX, top)
	p.pdf.SetFont("Helvetica", "B", 16)
	p.pdf.SetTextColor(31, 78, 121)
	p.pdf.CellFormat(half, 8, p.tr(p.layout.Title), "", 2, "R", false, 0, "")
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetFont("Helvetica", "", 9)
	for _, field := range p.layout.Meta {
		p.pdf.SetX(rightX)
		p.pdf.CellFormat(half, 4.5, p.tr(field.Label+": "+field.Value), "", 2, "R", false, 0, "")
	}
	rightBottom := p.pdf.GetY()

	bottom := leftBottom
	if rightBottom > bottom {
		bottom = rightBottom
	}
	p.pdf.SetXY(pdfMargin, bottom+4)
}

func (p *pdfPainter) counterparty() {
	p.pdf.SetFont("Helvetica", "B", 10)
	p.pdf.SetTextColor(31, 78, 121)
	p.pdf.CellFormat(0, 5, p.tr(p.layout.Counterparty.Label), "", 1, "L", false, 0, "")
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.CellFormat(0, 5, p.tr(p.layout.Counterparty.Name), "", 1, "L", false, 0, "")
	p.pdf.SetFont("Helvetica", "", 9)
	for _, line := range p.layout.Counterparty.Lines {
		p.pdf.CellFormat(0, 4.5, p.tr(line), "", 1, "L", false, 0, "")
	}
	p.pdf.Ln(4)
}

func (p *pdfPainter) tableHeader() {
	p.pdf.SetFont("Helvetica", "B", 8)
	p.pdf.SetFillColor(31, 78, 121)
	p.pdf.SetTextColor(255, 255, 255)
	p.pdf.SetDrawColor(191, 191, 191)
	for i, header := range p.layout.Columns {
		p.pdf.CellFormat(p.widths[i], 7, p.tr(header), "1", 0, "C", true, 0, "")
	}
	p.pdf.Ln(-1)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetFont("Helvetica", "", 8)
}

func (p *pdfPainter) items() {
	p.tableHeader()
	p.inTable = true
	for _, item := range p.layout.Items {
		cells := []string{
			fmt.Sprintf("%d", item.Serial),
			item.Description,
			item.QuantityText,
			item.UnitPriceText,
			item.TaxRateText,
			item.GrossText,
			item.TaxAmountText,
			item.LineTotalText,
		}
		if p.layout.Summary.TracksPayments {
			cells = append(cells, item.ReceivedText)
		}
		p.itemRow(cells)
	}
	p.inTable = false
	p.pdf.Ln(4)
}

// itemRow draws one row, wrapping the description. Rows never split across pages.
func (p *pdfPainter) itemRow(cells []string) {
	p.pdf.SetFont("Helvetica", "", 8)
	description := p.tr(cells[1])
	lines := p.pdf.SplitLines([]byte(description), p.widths[1]-2)
	if len(lines) == 0 {
		lines = [][]byte{{}}
	}
	height := float64(len(lines))*pdfLineHeight + 1

	p.ensureSpace(height)
	x, y := p.pdf.GetXY()
	for i, text := range cells {
		width := p.widths[i]
		p.pdf.Rect(x, y, width, height, "D")
		if i == 1 {
			p.pdf.SetXY(x+1, y+0.5)
			p.pdf.MultiCell(width-2, pdfLineHeight, description, "", "L", false)
		} else {
			align := "R"
			if i == 0 {
				align = "C"
			}
			p.pdf.SetXY(x, y+0.5)
			p.pdf.CellFormat(width, pdfLineHeight, p.tr(text), "", 0, align, false, 0, "")
		}
		x += width
	}
	p.pdf.SetXY(pdfMargin, y+height)
}

// ensureSpace starts a new page when height does not fit above the bottom margin
func (p *pdfPainter) ensureSpace(height float64) {
	_, pageHeight := p.pdf.GetPageSize()
	if p.pdf.GetY()+height > pageHeight-pdfBottomMargin {
		p.pdf.AddPage()
	}
}

func (p *pdfPainter) totals() {
	labelWidth, valueWidth := 40.0, 30.0
	x := pdfMargin + p.contentWidth() - labelWidth - valueWidth
	p.ensureSpace(float64(len(p.layout.Totals)) * 6)
	for _, total := range p.layout.Totals {
		style := ""
		if total.Kind == TotalTotal {
			style = "B"
		}
		p.pdf.SetFont("Helvetica", style, 9)
		p.pdf.SetX(x)
		p.pdf.CellFormat(labelWidth, 6, p.tr(total.Label), "1", 0, "L", false, 0, "")
		p.pdf.CellFormat(valueWidth, 6, total.Text, "1", 1, "R", false, 0, "")
	}
	p.pdf.Ln(6)
}

func (p *pdfPainter) text() {
	section := func(title string, paragraphs []string) {
		if len(paragraphs) == 0 {
			return
		}
		p.ensureSpace(12)
		p.pdf.SetFont("Helvetica", "B", 10)
		p.pdf.CellFormat(0, 6, p.tr(title), "", 1, "L", false, 0, "")
		p.pdf.SetFont("Helvetica", "", 9)
		for _, paragraph := range paragraphs {
			p.pdf.MultiCell(0, 4.5, p.tr(paragraph), "", "L", false)
		}
		p.pdf.Ln(3)
	}
	section("Notes", p.layout.Notes)
	section("Terms & Conditions", p.layout.Terms)
	section("Bank Details", p.layout.BankDetails)
}

func (p *pdfPainter) signatures() {
	seal, signature := p.layout.Images.Seal, p.layout.Images.Signature
	if seal == nil && signature == nil {
		return
	}
	p.ensureSpace(35)
	y := p.pdf.GetY()
	right := pdfMargin + p.contentWidth()

	p.image(seal, pdfMargin, y, 30, 30)
	if w, h, ok := p.image(signature, right-45, y, 45, 20); ok {
		p.pdf.SetFont("Helvetica", "", 8)
		p.pdf.SetXY(right-45, y+h+1)
		p.pdf.CellFormat(w, 4, "Authorised Signature", "T", 0, "C", false, 0, "")
	}
}

// image draws img scaled into the box and returns its size. An image the
// PDF library rejects is omitted and the document error state is cleared.
func (p *pdfPainter) image(img *Image, x, y, maxWidth, maxHeight float64) (float64, float64, bool) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return 0, 0, false
	}

	p.images++
	name := fmt.Sprintf("image%d", p.images)
	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(img.Format)}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if p.pdf.Err() {
		p.logger.Warn("image omitted from PDF", zap.String("format", img.Format), zap.Error(p.pdf.Error()))
		p.pdf.ClearError()
		return 0, 0, false
	}

	width := maxWidth
	height := width * float64(img.Height) / float64(img.Width)
	if height > maxHeight {
		height = maxHeight
		width = height * float64(img.Width) / float64(img.Height)
	}
	p.pdf.ImageOptions(name, x, y, width, height, false, opts, 0, "")
	return width, height, true
}
