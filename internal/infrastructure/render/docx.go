package render

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// A4 portrait with 2 cm margins, in twentieths of a point
const (
	docxPageWidth    = 11906
	docxPageHeight   = 16838
	docxMargin       = 1134
	docxContentWidth = docxPageWidth - 2*docxMargin

	emuPerPixel = 9525
)

const (
	nsMain         = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRelationship = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsDrawing      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	relImage       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relStyles      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
)

// WordRenderer writes a WordprocessingML document laid out with tables.
// Amounts are literal text formatted by the layout.
type WordRenderer struct {
	logger *zap.Logger
}

// NewWordRenderer creates a DOCX renderer
func NewWordRenderer(logger *zap.Logger) *WordRenderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WordRenderer{logger: logger}
}

// Format returns FormatDOCX
func (r *WordRenderer) Format() Format {
	return FormatDOCX
}

// Render paints the layout into a DOCX package
func (r *WordRenderer) Render(ctx context.Context, layout *Layout) (*Artifact, error) {
	if err := checkLayout(layout); err != nil {
		return nil, err
	}

	b := &docxBuilder{}
	r.writeHeader(b, layout)
	r.writeCounterparty(b, layout)
	r.writeItems(b, layout)
	r.writeTotals(b, layout)
	r.writeText(b, layout)
	r.writeFooter(b, layout)

	data, err := b.pack(layout.Title + " " + layout.Number)
	if err != nil {
		return nil, NewRenderError(ErrCodeWriteFailed, "failed to write document package", err)
	}

	r.logger.Debug("word document rendered",
		zap.String("number", layout.Number),
		zap.Int("items", len(layout.Items)),
		zap.Int("images", len(b.media)),
		zap.Int("bytes", len(data)))

	return newArtifact(layout, FormatDOCX, data), nil
}

func (r *WordRenderer) writeHeader(b *docxBuilder, layout *Layout) {
	half := docxContentWidth / 2
	b.tableStart([]int{half, docxContentWidth - half}, false)
	b.rowStart(false)

	b.cellStart(half, "")
	if logo := layout.Images.Logo; logo != nil {
		b.imageParagraph(logo, 160, 80, "left")
	}
	b.paragraph(layout.Company.Name, docxRun{bold: true, size: 28})
	for _, line := range layout.Company.Lines {
		b.paragraph(line, docxRun{size: 18})
	}
	b.cellEnd()

	b.cellStart(docxContentWidth-half, "")
	b.paragraph(layout.Title, docxRun{bold: true, size: 32, color: "1F4E79", align: "right"})
	for _, field := range layout.Meta {
		b.paragraph(field.Label+": "+field.Value, docxRun{size: 18, align: "right"})
	}
	b.cellEnd()

	b.rowEnd()
	b.tableEnd()
	b.paragraph("", docxRun{})
}

func (r *WordRenderer) writeCounterparty(b *docxBuilder, layout *Layout) {
	b.paragraph(layout.Counterparty.Label, docxRun{bold: true, color: "1F4E79"})
	b.paragraph(layout.Counterparty.Name, docxRun{bold: true})
	for _, line := range layout.Counterparty.Lines {
		b.paragraph(line, docxRun{size: 18})
	}
	b.paragraph("", docxRun{})
}

func (r *WordRenderer) writeItems(b *docxBuilder, layout *Layout) {
	widths := docxItemWidths(len(layout.Columns))
	b.tableStart(widths, true)

	b.rowStart(true)
	for i, header := range layout.Columns {
		b.cellStart(widths[i], "1F4E79")
		b.paragraph(header, docxRun{bold: true, size: 18, color: "FFFFFF", align: "center"})
		b.cellEnd()
	}
	b.rowEnd()

	for _, item := range layout.Items {
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
		if layout.Summary.TracksPayments {
			cells = append(cells, item.ReceivedText)
		}

		b.rowStart(false)
		for i, text := range cells {
			align := "right"
			if i == 1 {
				align = "left"
			}
			b.cellStart(widths[i], "")
			b.paragraph(text, docxRun{size: 18, align: align})
			b.cellEnd()
		}
		b.rowEnd()
	}
	b.tableEnd()
	b.paragraph("", docxRun{})
}

func (r *WordRenderer) writeTotals(b *docxBuilder, layout *Layout) {
	spacer := docxContentWidth / 2
	label := docxContentWidth / 4
	value := docxContentWidth - spacer - label
	b.tableStart([]int{spacer, label, value}, false)
	for _, total := range layout.Totals {
		run := docxRun{size: 20, align: "right"}
		if total.Kind == TotalTotal {
			run.bold = true
		}
		b.rowStart(false)
		b.cellStart(spacer, "")
		b.paragraph("", docxRun{})
		b.cellEnd()
		b.cellStart(label, "")
		b.paragraph(total.Label, run)
		b.cellEnd()
		b.cellStart(value, "")
		b.paragraph(total.Text, run)
		b.cellEnd()
		b.rowEnd()
	}
	b.tableEnd()
	b.paragraph("", docxRun{})
}

func (r *WordRenderer) writeText(b *docxBuilder, layout *Layout) {
	section := func(title string, paragraphs []string) {
		if len(paragraphs) == 0 {
			return
		}
		b.paragraph(title, docxRun{bold: true, color: "1F4E79"})
		for _, p := range paragraphs {
			b.paragraph(p, docxRun{size: 18})
		}
		b.paragraph("", docxRun{})
	}
	section("Notes", layout.Notes)
	section("Terms & Conditions", layout.Terms)
}

func (r *WordRenderer) writeFooter(b *docxBuilder, layout *Layout) {
	seal, signature := layout.Images.Seal, layout.Images.Signature
	if len(layout.BankDetails) > 0 || seal != nil || signature != nil {
		half := docxContentWidth / 2
		b.tableStart([]int{half, docxContentWidth - half}, false)
		b.rowStart(false)

		b.cellStart(half, "")
		if len(layout.BankDetails) > 0 {
			b.paragraph("Bank Details", docxRun{bold: true})
			for _, line := range layout.BankDetails {
				b.paragraph(line, docxRun{size: 18})
			}
		} else {
			b.paragraph("", docxRun{})
		}
		b.cellEnd()

		b.cellStart(docxContentWidth-half, "")
		if seal != nil {
			b.imageParagraph(seal, 110, 110, "right")
		}
		if signature != nil {
			b.imageParagraph(signature, 160, 60, "right")
			b.paragraph("Authorised Signature", docxRun{size: 18, align: "right"})
		}
		if seal == nil && signature == nil {
			b.paragraph("", docxRun{})
		}
		b.cellEnd()

		b.rowEnd()
		b.tableEnd()
	}

	if layout.FooterText != "" {
		b.paragraph("", docxRun{})
		b.paragraph(layout.FooterText, docxRun{size: 16, color: "595959", align: "center"})
	}
}

// docxItemWidths splits the content width over the item columns, giving the
// description the remainder
func docxItemWidths(columns int) []int {
	const narrow, amount = 550, 1050
	widths := make([]int, columns)
	used := 0
	for i := range widths {
		switch i {
		case 0:
			widths[i] = narrow
		case 1:
			continue
		case 2, 4:
			widths[i] = narrow + 150
		default:
			widths[i] = amount
		}
		used += widths[i]
	}
	if columns > 1 {
		widths[1] = docxContentWidth - used
	}
	return widths
}

type docxRun struct {
	bold  bool
	size  int // half-points
	color string
	align string
}

type docxMedia struct {
	relID string
	name  string
	data  []byte
}

type docxBuilder struct {
	body  bytes.Buffer
	media []docxMedia
}

func (b *docxBuilder) text(s string) {
	_ = xml.EscapeText(&b.body, []byte(s))
}

func (b *docxBuilder) paragraphStart(align string) {
	b.body.WriteString(`<w:p><w:pPr><w:spacing w:before="0" w:after="40"/>`)
	if align != "" && align != "left" {
		fmt.Fprintf(&b.body, `<w:jc w:val="%s"/>`, align)
	}
	b.body.WriteString(`</w:pPr>`)
}

func (b *docxBuilder) paragraph(text string, run docxRun) {
	b.paragraphStart(run.align)
	if text != "" {
		b.body.WriteString(`<w:r><w:rPr>`)
		if run.bold {
			b.body.WriteString(`<w:b/>`)
		}
		if run.color != "" {
			fmt.Fprintf(&b.body, `<w:color w:val="%s"/>`, run.color)
		}
		if run.size > 0 {
			fmt.Fprintf(&b.body, `<w:sz w:val="%d"/>`, run.size)
		}
		b.body.WriteString(`</w:rPr><w:t xml:space="preserve">`)
		b.text(text)
		b.body.WriteString(`</w:t></w:r>`)
	}
	b.body.WriteString(`</w:p>`)
}

// imageParagraph embeds an image inline, scaled into the box in pixels
func (b *docxBuilder) imageParagraph(img *Image, maxWidth, maxHeight float64, align string) {
	index := len(b.media) + 1
	media := docxMedia{
		relID: fmt.Sprintf("rIdImage%d", index),
		name:  fmt.Sprintf("image%d%s", index, img.Extension()),
		data:  img.Data,
	}
	b.media = append(b.media, media)

	w, h := img.FitWithin(maxWidth, maxHeight)
	cx, cy := int64(w*emuPerPixel), int64(h*emuPerPixel)

	b.paragraphStart(align)
	fmt.Fprintf(&b.body, `<w:r><w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">`+
		`<wp:extent cx="%d" cy="%d"/><wp:docPr id="%d" name="Picture %d"/>`+
		`<a:graphic xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">`+
		`<a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:nvPicPr><pic:cNvPr id="%d" name="%s"/><pic:cNvPicPr/></pic:nvPicPr>`+
		`<pic:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>`+
		`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
		`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>`+
		`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`,
		cx, cy, index, index, index, media.name, media.relID, cx, cy)
}

func (b *docxBuilder) tableStart(widths []int, bordered bool) {
	total := 0
	for _, w := range widths {
		total += w
	}
	fmt.Fprintf(&b.body, `<w:tbl><w:tblPr><w:tblW w:w="%d" w:type="dxa"/><w:tblLayout w:type="fixed"/>`, total)
	if bordered {
		b.body.WriteString(`<w:tblBorders>`)
		for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
			fmt.Fprintf(&b.body, `<w:%s w:val="single" w:sz="4" w:space="0" w:color="BFBFBF"/>`, side)
		}
		b.body.WriteString(`</w:tblBorders>`)
	}
	b.body.WriteString(`</w:tblPr><w:tblGrid>`)
	for _, w := range widths {
		fmt.Fprintf(&b.body, `<w:gridCol w:w="%d"/>`, w)
	}
	b.body.WriteString(`</w:tblGrid>`)
}

func (b *docxBuilder) tableEnd() {
	b.body.WriteString(`</w:tbl>`)
}

// rowStart opens a table row; header rows repeat on every page
func (b *docxBuilder) rowStart(header bool) {
	b.body.WriteString(`<w:tr>`)
	if header {
		b.body.WriteString(`<w:trPr><w:tblHeader/></w:trPr>`)
	}
}

func (b *docxBuilder) rowEnd() {
	b.body.WriteString(`</w:tr>`)
}

func (b *docxBuilder) cellStart(width int, fill string) {
	fmt.Fprintf(&b.body, `<w:tc><w:tcPr><w:tcW w:w="%d" w:type="dxa"/>`, width)
	if fill != "" {
		fmt.Fprintf(&b.body, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, fill)
	}
	b.body.WriteString(`</w:tcPr>`)
}

func (b *docxBuilder) cellEnd() {
	b.body.WriteString(`</w:tc>`)
}

// pack assembles the OPC package
func (b *docxBuilder) pack(title string) ([]byte, error) {
	var document strings.Builder
	document.WriteString(xml.Header)
	fmt.Fprintf(&document, `<w:document xmlns:w="%s" xmlns:r="%s" xmlns:wp="%s"><w:body>`, nsMain, nsRelationship, nsDrawing)
	document.Write(b.body.Bytes())
	fmt.Fprintf(&document, `<w:sectPr><w:pgSz w:w="%d" w:h="%d"/>`+
		`<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="567" w:footer="567" w:gutter="0"/>`+
		`</w:sectPr></w:body></w:document>`,
		docxPageWidth, docxPageHeight, docxMargin, docxMargin, docxMargin, docxMargin)

	var rels strings.Builder
	rels.WriteString(xml.Header)
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	fmt.Fprintf(&rels, `<Relationship Id="rIdStyles" Type="%s" Target="styles.xml"/>`, relStyles)
	for _, m := range b.media {
		fmt.Fprintf(&rels, `<Relationship Id="%s" Type="%s" Target="media/%s"/>`, m.relID, relImage, m.name)
	}
	rels.WriteString(`</Relationships>`)

	var core bytes.Buffer
	core.WriteString(xml.Header)
	core.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>`)
	_ = xml.EscapeText(&core, []byte(title))
	core.WriteString(`</dc:title></cp:coreProperties>`)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	parts := []struct {
		name string
		data []byte
	}{
		{"[Content_Types].xml", []byte(docxContentTypes)},
		{"_rels/.rels", []byte(docxPackageRels)},
		{"docProps/core.xml", core.Bytes()},
		{"word/document.xml", []byte(document.String())},
		{"word/styles.xml", []byte(docxStyles)},
		{"word/_rels/document.xml.rels", []byte(rels.String())},
	}
	for _, m := range b.media {
		parts = append(parts, struct {
			name string
			data []byte
		}{"word/media/" + m.name, m.data})
	}

	for _, part := range parts {
		fw, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", part.name, err)
		}
		if _, err := fw.Write(part.data); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to close package: %w", err)
	}
	return out.Bytes(), nil
}

const docxContentTypes = xml.Header +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Default Extension="png" ContentType="image/png"/>` +
	`<Default Extension="jpg" ContentType="image/jpeg"/>` +
	`<Default Extension="gif" ContentType="image/gif"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>` +
	`</Types>`

const docxPackageRels = xml.Header +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>` +
	`</Relationships>`

const docxStyles = xml.Header +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:docDefaults><w:rPrDefault><w:rPr>` +
	`<w:rFonts w:ascii="Calibri" w:hAnsi="Calibri" w:eastAsia="Calibri" w:cs="Arial"/>` +
	`<w:sz w:val="20"/><w:szCs w:val="20"/></w:rPr></w:rPrDefault>` +
	`<w:pPrDefault><w:pPr><w:spacing w:after="40"/></w:pPr></w:pPrDefault></w:docDefaults>` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` +
	`</w:styles>`
