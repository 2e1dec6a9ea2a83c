package render

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChromiumRenderer(t *testing.T, config *ChromedpConfig) *ChromiumPDFRenderer {
	t.Helper()
	renderer, err := NewChromiumPDFRenderer(config)
	require.NoError(t, err)
	t.Cleanup(func() { _ = renderer.Close() })
	return renderer
}

func TestNewChromiumPDFRenderer_Defaults(t *testing.T) {
	renderer := newTestChromiumRenderer(t, nil)

	assert.Equal(t, defaultChromeTimeout, renderer.config.DefaultTimeout)
	assert.Equal(t, defaultScale, renderer.config.Scale)
	assert.Equal(t, DefaultTemplate(), renderer.config.Template)
	assert.Equal(t, FormatPDF, renderer.Format())

	custom := newTestChromiumRenderer(t, &ChromedpConfig{DefaultTimeout: 5 * time.Second, Scale: 0.8, RemoteURL: "ws://chrome:9222"})
	assert.Equal(t, 5*time.Second, custom.config.DefaultTimeout)
	assert.Equal(t, 0.8, custom.config.Scale)
}

func TestChromiumPDFRenderer_RenderHTML(t *testing.T) {
	renderer := newTestChromiumRenderer(t, nil)
	paid := sedanItem()
	paid.AmountReceived = 110
	doc := newTestDocument(t, document.DocTypeInvoice, "Invoice-001", paid, driverItem())
	doc.Terms = "<p>Deposit &amp; ID required</p>"
	layout, err := BuildLayout(doc, testSettings(), "", Images{Logo: testImage(t, 40, 20)})
	require.NoError(t, err)

	html, err := renderer.RenderHTML(context.Background(), layout)

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	for _, want := range []string{
		"<title>Tax Invoice Invoice-001</title>",
		"<h2>TAX INVOICE</h2>",
		"Invoice No.: Invoice-001",
		"<th>Received</th>",
		"<td>210.00</td>",
		"<td>110.00</td>",
		`<tr class="total"><td>Total (AED)</td><td>410.00</td></tr>`,
		"Deposit &amp; ID required",
		`src="data:image/png;base64,`,
		"Thank you for your business",
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "Authorised Signature")
}

func TestChromiumPDFRenderer_RenderHTMLQuote(t *testing.T) {
	renderer := newTestChromiumRenderer(t, nil)
	layout := testLayout(t, document.DocTypeQuote, "Quote-001", sedanItem())

	html, err := renderer.RenderHTML(context.Background(), layout)

	require.NoError(t, err)
	assert.NotContains(t, html, "<th>Received</th>")
	assert.NotContains(t, html, "Balance Due")
	assert.NotContains(t, html, "<img")
}

func TestChromiumPDFRenderer_Errors(t *testing.T) {
	ctx := context.Background()
	var renderErr *RenderError

	renderer := newTestChromiumRenderer(t, nil)
	_, err := renderer.Render(ctx, &Layout{DocType: document.DocTypeQuote})
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeNoItems, renderErr.Code)

	broken := newTestChromiumRenderer(t, &ChromedpConfig{Template: "{{.Missing"})
	_, err = broken.RenderHTML(ctx, testLayout(t, document.DocTypeQuote, "Quote-001", sedanItem()))
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeInvalidHTML, renderErr.Code)
}

func TestBuildPrintParams(t *testing.T) {
	renderer := newTestChromiumRenderer(t, &ChromedpConfig{Scale: 0.9})

	params := renderer.buildPrintParams()

	assert.InDelta(t, 8.27, params.paperWidth, 0.01)
	assert.InDelta(t, 11.69, params.paperHeight, 0.01)
	assert.InDelta(t, mmToInches(15), params.marginTop, 1e-9)
	assert.InDelta(t, mmToInches(20), params.marginBottom, 1e-9)
	assert.Equal(t, 0.9, params.scale)
	assert.True(t, params.printBackground)
	assert.True(t, params.displayHeaderFooter)
	assert.Contains(t, params.footerTemplate, `class="pageNumber"`)
	assert.Contains(t, params.footerTemplate, `class="totalPages"`)
}

func TestBuildCompleteHTML(t *testing.T) {
	wrapped := buildCompleteHTML("<p>Hello</p>", "Quote Quote-001")
	assert.Equal(t, `<!DOCTYPE html><html><head><meta charset="UTF-8"><title>Quote Quote-001</title></head><body><p>Hello</p></body></html>`, wrapped)

	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, buildCompleteHTML(full, "ignored"))
}

func TestEstimatePageCount(t *testing.T) {
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF-1.4")))
	data := []byte("<< /Type /Pages /Kids [3 0 R 4 0 R] >> << /Type /Page >> << /Type /Page >>")
	assert.Equal(t, 2, estimatePageCount(data))
}

func TestMMToInches(t *testing.T) {
	assert.InDelta(t, 1.0, mmToInches(25.4), 1e-9)
}
