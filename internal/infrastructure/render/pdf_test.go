package render

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func renderPDF(t *testing.T, layout *Layout) (*Artifact, string) {
	t.Helper()
	renderer := NewPDFRenderer(PDFConfig{DisableCompression: true, Logger: zaptest.NewLogger(t)})
	artifact, err := renderer.Render(context.Background(), layout)
	require.NoError(t, err)
	return artifact, string(artifact.Data)
}

func TestPDFRenderer_Render(t *testing.T) {
	paid := sedanItem()
	paid.AmountReceived = 110
	layout := testLayout(t, document.DocTypeInvoice, "Invoice-001", paid, driverItem())

	artifact, content := renderPDF(t, layout)

	assert.Equal(t, "invoice-Invoice-001.pdf", artifact.Filename)
	assert.Equal(t, ContentTypePDF, artifact.ContentType)
	assert.True(t, strings.HasPrefix(content, "%PDF-"))
	for _, want := range []string{
		"TAX INVOICE",
		"Invoice No.: Invoice-001",
		"Gulf Logistics LLC",
		"Sedan Rental",
		"210.00",
		"410.00",
		"Balance Due",
		"300.00",
		"Bank Details",
		"Thank you for your business",
		"Page 1/1",
	} {
		assert.Contains(t, content, want)
	}
	assert.NotContains(t, content, "{nb}")
}

func TestPDFRenderer_Pagination(t *testing.T) {
	items := make([]document.LineItem, 0, 60)
	for i := 1; i <= 60; i++ {
		items = append(items, document.NewLineItem(fmt.Sprintf("Vehicle rental line %02d", i), 1, 100, document.PercentTax(5)))
	}
	layout := testLayout(t, document.DocTypeQuote, "Quote-100", items...)

	_, content := renderPDF(t, layout)

	assert.Contains(t, content, "Page 2/")
	assert.Contains(t, content, "Vehicle rental line 60")
	// continuation pages repeat the title line and the table header
	assert.Contains(t, content, "QUOTATION Quote-100")
	assert.Greater(t, strings.Count(content, "(Unit Price)"), 1)
	assert.Contains(t, content, "6,300.00")
}

func TestPDFRenderer_LongDescriptionWraps(t *testing.T) {
	long := document.NewLineItem(strings.Repeat("Luxury SUV with chauffeur ", 8), 1, 1500, document.PercentTax(5))
	layout := testLayout(t, document.DocTypePurchaseOrder, "PO-001", long)

	_, content := renderPDF(t, layout)

	assert.Contains(t, content, "PURCHASE ORDER")
	assert.Greater(t, strings.Count(content, "Luxury SUV with chauffeur"), 2)
}

func TestPDFRenderer_Images(t *testing.T) {
	layout := testLayout(t, document.DocTypeQuote, "Quote-001", sedanItem())

	t.Run("valid images are embedded", func(t *testing.T) {
		layout.Images = Images{
			Logo:      testImage(t, 200, 100),
			Signature: testImage(t, 300, 100),
		}
		_, content := renderPDF(t, layout)

		assert.Contains(t, content, "/Subtype /Image")
		assert.Contains(t, content, "Authorised Signature")
	})

	t.Run("rejected image is omitted", func(t *testing.T) {
		layout.Images = Images{
			Logo: &Image{Data: []byte("not a png"), Format: "png", Width: 10, Height: 10},
		}
		_, content := renderPDF(t, layout)

		assert.NotContains(t, content, "/Subtype /Image")
		assert.Contains(t, content, "Falcon Car Rental LLC")
	})
}

func TestPDFRenderer_Errors(t *testing.T) {
	renderer := NewPDFRenderer(PDFConfig{})
	var renderErr *RenderError

	_, err := renderer.Render(context.Background(), &Layout{DocType: document.DocTypeQuote})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeNoItems, renderErr.Code)

	_, err = renderer.Render(context.Background(), &Layout{Columns: []string{"S.No"}, Items: []ItemRow{{Serial: 1}}})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidLayout, renderErr.Code)
}

func TestPDFItemWidths(t *testing.T) {
	for columns, widths := range pdfItemWidths {
		total := 0.0
		for _, w := range widths {
			total += w
		}
		assert.InDelta(t, 180, total, 1e-9, "%d columns", columns)
		assert.Len(t, widths, columns)
	}
}
