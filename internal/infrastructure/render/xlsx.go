package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Fixed row positions of the worksheet
const (
	xlsxHeaderRow    = 8
	xlsxFirstItemRow = 9
)

// Item table columns (1-based)
const (
	colSerial = iota + 1
	colDescription
	colQuantity
	colUnitPrice
	colTaxRate
	colGross
	colTax
	colLineTotal
	colReceived
)

var xlsxColumnWidths = map[document.DocType][]float64{
	document.DocTypeQuote:         {6, 40, 10, 14, 8, 14, 12, 16},
	document.DocTypeInvoice:       {6, 36, 10, 14, 8, 14, 12, 16, 14},
	document.DocTypePurchaseOrder: {6, 42, 10, 14, 8, 14, 12, 16},
}

// SpreadsheetRenderer writes a single worksheet in which every item and
// total amount is a live formula over the item inputs
type SpreadsheetRenderer struct {
	logger *zap.Logger
}

// NewSpreadsheetRenderer creates an XLSX renderer
func NewSpreadsheetRenderer(logger *zap.Logger) *SpreadsheetRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpreadsheetRenderer{logger: logger}
}

// Format returns FormatXLSX
func (r *SpreadsheetRenderer) Format() Format {
	return FormatXLSX
}

// Render paints the layout into an XLSX workbook
func (r *SpreadsheetRenderer) Render(ctx context.Context, layout *Layout) (*Artifact, error) {
	if err := checkLayout(layout); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			r.logger.Warn("failed to close workbook", zap.Error(err))
		}
	}()

	sheet := layout.DocType.DisplayName()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to name worksheet", err)
	}

	w := &sheetWriter{f: f, sheet: sheet}
	styles, err := newXLSXStyles(f)
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to create cell styles", err)
	}

	lastCol := len(layout.Columns)
	r.paintHeader(w, layout, styles, lastCol)
	lastItemRow := r.paintItems(w, layout, styles)
	nextRow := r.paintTotals(w, layout, styles, lastItemRow)
	nextRow = r.paintText(w, layout, styles, nextRow, lastCol)
	r.paintSignatures(w, layout, nextRow)
	r.setColumnWidths(w, layout)

	if w.err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write worksheet", w.err)
	}

	fullCalc := true
	if err := f.SetCalcProps(&excelize.CalcPropsOptions{FullCalcOnLoad: &fullCalc}); err != nil {
		r.logger.Warn("failed to set calculation properties", zap.Error(err))
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   layout.Title + " " + layout.Number,
		Creator: layout.Company.Name,
	}); err != nil {
		r.logger.Warn("failed to set document properties", zap.Error(err))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, NewRenderError(ErrCodeWriteFailed, "failed to write workbook", err)
	}

	r.logger.Debug("spreadsheet rendered",
		zap.String("number", layout.Number),
		zap.Int("items", len(layout.Items)),
		zap.Int("bytes", buf.Len()))

	return newArtifact(layout, FormatXLSX, buf.Bytes()), nil
}

func (r *SpreadsheetRenderer) paintHeader(w *sheetWriter, layout *Layout, s xlsxStyles, lastCol int) {
	// Company block, shifted right when a logo occupies the corner
	companyCol := colSerial
	if layout.Images.Logo != nil {
		if r.addPicture(w, "A1", layout.Images.Logo, 140, 70) {
			companyCol = colQuantity
		}
	}
	w.value(companyCol, 1, layout.Company.Name)
	w.style(companyCol, 1, companyCol, 1, s.company)
	for i, line := range foldLines(layout.Company.Lines, 3) {
		w.value(companyCol, 2+i, line)
	}

	// Title and metadata on the right
	metaLabelCol := colGross
	w.value(metaLabelCol, 1, layout.Title)
	w.merge(metaLabelCol, 1, lastCol, 1)
	w.style(metaLabelCol, 1, lastCol, 1, s.title)
	for i, field := range layout.Meta {
		row := 2 + i
		w.value(metaLabelCol, row, field.Label)
		w.style(metaLabelCol, row, metaLabelCol, row, s.bold)
		w.value(metaLabelCol+1, row, field.Value)
		w.merge(metaLabelCol+1, row, lastCol, row)
	}

	// Counterparty block
	w.value(colSerial, 5, layout.Counterparty.Label)
	w.style(colSerial, 5, colSerial, 5, s.bold)
	w.value(colSerial, 6, layout.Counterparty.Name)
	w.merge(colSerial, 6, colDescription, 6)
	w.style(colSerial, 6, colDescription, 6, s.bold)
	w.value(colSerial, 7, strings.Join(layout.Counterparty.Lines, ", "))
	w.merge(colSerial, 7, colUnitPrice, 7)

	for i, header := range layout.Columns {
		w.value(i+1, xlsxHeaderRow, header)
	}
	w.style(colSerial, xlsxHeaderRow, lastCol, xlsxHeaderRow, s.header)
}

// paintItems writes one row per item and returns the last item row
func (r *SpreadsheetRenderer) paintItems(w *sheetWriter, layout *Layout, s xlsxStyles) int {
	row := xlsxFirstItemRow
	for _, item := range layout.Items {
		qty := w.ref(colQuantity, row)
		price := w.ref(colUnitPrice, row)

		w.value(colSerial, row, item.Serial)
		w.value(colDescription, row, item.Description)
		w.value(colQuantity, row, item.Quantity)
		w.value(colUnitPrice, row, item.UnitPrice)

		w.formula(colGross, row, qty+"*"+price)
		switch item.TaxKind {
		case document.TaxKindPercent:
			w.value(colTaxRate, row, item.TaxValue)
			w.formula(colTax, row, fmt.Sprintf("(%s*%s*%s)/100", qty, price, w.ref(colTaxRate, row)))
		case document.TaxKindFlat:
			w.value(colTaxRate, row, item.TaxRateText)
			w.value(colTax, row, item.TaxValue)
		default:
			w.value(colTaxRate, row, 0)
			w.value(colTax, row, 0)
		}
		w.formula(colLineTotal, row, w.ref(colGross, row)+"+"+w.ref(colTax, row))

		if layout.Summary.TracksPayments {
			w.value(colReceived, row, item.AmountReceived)
			w.style(colReceived, row, colReceived, row, s.currency)
		}

		w.style(colSerial, row, colDescription, row, s.cell)
		quantityStyle := s.quantity
		if item.FractionalQuantity {
			quantityStyle = s.fractionalQuantity
		}
		w.style(colQuantity, row, colQuantity, row, quantityStyle)
		w.style(colUnitPrice, row, colUnitPrice, row, s.currency)
		w.style(colTaxRate, row, colTaxRate, row, s.cell)
		w.style(colGross, row, colLineTotal, row, s.currency)
		row++
	}
	return row - 1
}

// paintTotals writes the totals block below the items and returns the next
// free row
func (r *SpreadsheetRenderer) paintTotals(w *sheetWriter, layout *Layout, s xlsxStyles, lastItemRow int) int {
	itemRange := func(col int) string {
		return w.rangeRef(col, xlsxFirstItemRow, col, lastItemRow)
	}
	labelCol, valueCol := colTax, colLineTotal

	rows := make(map[TotalKind]string, len(layout.Totals))
	row := lastItemRow + 2
	for _, total := range layout.Totals {
		rows[total.Kind] = w.ref(valueCol, row)
		row++
	}

	row = lastItemRow + 2
	for _, total := range layout.Totals {
		var formula string
		switch total.Kind {
		case TotalSubtotal:
			formula = "SUM(" + itemRange(colGross) + ")"
		case TotalTax:
			taxSum := "SUM(" + itemRange(colTax) + ")"
			formula = fmt.Sprintf("IF(%s>0,%s,%s)", taxSum, taxSum, formatNumber(layout.Summary.FallbackTax))
		case TotalTotal:
			formula = rows[TotalSubtotal] + "+" + rows[TotalTax]
		case TotalReceived:
			receivedSum := "SUM(" + itemRange(colReceived) + ")"
			formula = receivedSum
			if layout.Summary.RecordedPayment > 0 {
				formula = receivedSum + "+" + formatNumber(layout.Summary.RecordedPayment)
			}
		case TotalPending:
			formula = rows[TotalTotal] + "-" + rows[TotalReceived]
		}

		w.value(labelCol, row, total.Label)
		w.formula(valueCol, row, formula)
		if total.Kind == TotalTotal {
			w.style(labelCol, row, labelCol, row, s.bold)
			w.style(valueCol, row, valueCol, row, s.grandTotal)
		} else {
			w.style(valueCol, row, valueCol, row, s.currency)
		}
		row++
	}
	return row + 1
}

// paintText writes notes, terms, bank details and footer; returns the next free row
func (r *SpreadsheetRenderer) paintText(w *sheetWriter, layout *Layout, s xlsxStyles, row, lastCol int) int {
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		w.value(colSerial, row, title)
		w.style(colSerial, row, colSerial, row, s.bold)
		row++
		for _, line := range lines {
			w.value(colSerial, row, line)
			w.merge(colSerial, row, lastCol, row)
			w.style(colSerial, row, lastCol, row, s.wrap)
			row++
		}
		row++
	}
	section("Notes", layout.Notes)
	section("Terms & Conditions", layout.Terms)
	section("Bank Details", layout.BankDetails)
	if layout.FooterText != "" {
		w.value(colSerial, row, layout.FooterText)
		w.merge(colSerial, row, lastCol, row)
		w.style(colSerial, row, lastCol, row, s.footer)
		row += 2
	}
	return row
}

func (r *SpreadsheetRenderer) paintSignatures(w *sheetWriter, layout *Layout, row int) {
	if seal := layout.Images.Seal; seal != nil {
		r.addPicture(w, w.ref(colDescription, row), seal, 110, 110)
	}
	if signature := layout.Images.Signature; signature != nil {
		if r.addPicture(w, w.ref(colGross, row), signature, 150, 60) {
			w.value(colGross, row+5, "Authorised Signature")
		}
	}
}

func (r *SpreadsheetRenderer) setColumnWidths(w *sheetWriter, layout *Layout) {
	widths, ok := xlsxColumnWidths[layout.DocType]
	if !ok {
		return
	}
	for i, width := range widths {
		if i >= len(layout.Columns) {
			break
		}
		name, err := ColumnName(i + 1)
		if err != nil {
			w.fail(err)
			return
		}
		w.fail(w.f.SetColWidth(w.sheet, name, name, width))
	}
}

// addPicture embeds an image scaled into the box. A failure only drops the image.
func (r *SpreadsheetRenderer) addPicture(w *sheetWriter, cell string, img *Image, maxWidth, maxHeight float64) bool {
	width, _ := img.FitWithin(maxWidth, maxHeight)
	scale := width / float64(img.Width)
	err := w.f.AddPictureFromBytes(w.sheet, cell, &excelize.Picture{
		Extension: img.Extension(),
		File:      img.Data,
		Format: &excelize.GraphicOptions{
			ScaleX:          scale,
			ScaleY:          scale,
			LockAspectRatio: true,
			OffsetX:         4,
			OffsetY:         4,
		},
	})
	if err != nil {
		r.logger.Warn("image omitted from spreadsheet", zap.String("cell", cell), zap.Error(err))
		return false
	}
	return true
}

// sheetWriter records the first error and turns later calls into no-ops
type sheetWriter struct {
	f     *excelize.File
	sheet string
	err   error
}

func (w *sheetWriter) fail(err error) {
	if w.err == nil && err != nil {
		w.err = err
	}
}

func (w *sheetWriter) ref(col, row int) string {
	cell, err := CellRef(col, row)
	w.fail(err)
	return cell
}

func (w *sheetWriter) rangeRef(fromCol, fromRow, toCol, toRow int) string {
	ref, err := RangeRef(fromCol, fromRow, toCol, toRow)
	w.fail(err)
	return ref
}

func (w *sheetWriter) value(col, row int, v interface{}) {
	if w.err != nil {
		return
	}
	w.fail(w.f.SetCellValue(w.sheet, w.ref(col, row), v))
}

func (w *sheetWriter) formula(col, row int, formula string) {
	if w.err != nil {
		return
	}
	w.fail(w.f.SetCellFormula(w.sheet, w.ref(col, row), formula))
}

func (w *sheetWriter) style(fromCol, fromRow, toCol, toRow, styleID int) {
	if w.err != nil {
		return
	}
	w.fail(w.f.SetCellStyle(w.sheet, w.ref(fromCol, fromRow), w.ref(toCol, toRow), styleID))
}

func (w *sheetWriter) merge(fromCol, fromRow, toCol, toRow int) {
	if w.err != nil || (fromCol == toCol && fromRow == toRow) {
		return
	}
	w.fail(w.f.MergeCell(w.sheet, w.ref(fromCol, fromRow), w.ref(toCol, toRow)))
}

type xlsxStyles struct {
	company            int
	title              int
	bold               int
	header             int
	cell               int
	currency           int
	quantity           int
	fractionalQuantity int
	grandTotal         int
	wrap               int
	footer             int
}

func newXLSXStyles(f *excelize.File) (xlsxStyles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "BFBFBF", Style: 1},
		{Type: "top", Color: "BFBFBF", Style: 1},
		{Type: "right", Color: "BFBFBF", Style: 1},
		{Type: "bottom", Color: "BFBFBF", Style: 1},
	}
	currencyFmt := NumFmtCurrency
	quantityFmt := NumFmtQuantity
	fractionalFmt := NumFmtFractionalQuantity

	var s xlsxStyles
	definitions := []struct {
		target *int
		style  *excelize.Style
	}{
		{&s.company, &excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}}},
		{&s.title, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Size: 14, Color: "1F4E79"},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		}},
		{&s.bold, &excelize.Style{Font: &excelize.Font{Bold: true}}},
		{&s.header, &excelize.Style{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    border,
		}},
		{&s.cell, &excelize.Style{Border: border, Alignment: &excelize.Alignment{Vertical: "top", WrapText: true}}},
		{&s.currency, &excelize.Style{Border: border, CustomNumFmt: &currencyFmt}},
		{&s.quantity, &excelize.Style{Border: border, CustomNumFmt: &quantityFmt}},
		{&s.fractionalQuantity, &excelize.Style{Border: border, CustomNumFmt: &fractionalFmt}},
		{&s.grandTotal, &excelize.Style{Font: &excelize.Font{Bold: true}, Border: border, CustomNumFmt: &currencyFmt}},
		{&s.wrap, &excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}}},
		{&s.footer, &excelize.Style{Font: &excelize.Font{Italic: true, Color: "595959"}, Alignment: &excelize.Alignment{Horizontal: "center"}}},
	}

	for _, def := range definitions {
		id, err := f.NewStyle(def.style)
		if err != nil {
			return s, err
		}
		*def.target = id
	}
	return s, nil
}

// foldLines keeps at most limit lines, joining the overflow into the last one
func foldLines(lines []string, limit int) []string {
	if len(lines) <= limit {
		return lines
	}
	folded := append([]string{}, lines[:limit-1]...)
	return append(folded, strings.Join(lines[limit-1:], " | "))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
