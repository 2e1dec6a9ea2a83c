package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultScale         = 1.0

	// A4 portrait
	a4WidthMM  = 210.0
	a4HeightMM = 297.0
	marginMM   = 15.0
)

const chromeFooterTemplate = `<div style="width:100%;font-size:8px;color:#595959;text-align:center;">` +
	`Page <span class="pageNumber"></span>/<span class="totalPages"></span></div>`

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout for rendering operations
	DefaultTimeout time.Duration
	// RemoteURL is the URL of a remote Chrome/Chromium instance (optional)
	// If empty, chromedp will launch a new browser instance
	RemoteURL string
	// NoSandbox runs Chrome without sandbox (required for Docker/root)
	NoSandbox bool
	// Scale for rendering (default: 1.0)
	Scale float64
	// Template overrides the built-in HTML template (optional)
	Template string
	// Logger for debug output
	Logger *zap.Logger
}

// ChromiumPDFRenderer renders the layout through an HTML template and prints
// it to PDF with Chrome DevTools Protocol
type ChromiumPDFRenderer struct {
	config      *ChromedpConfig
	logger      *zap.Logger
	templates   *TemplateEngine
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromiumPDFRenderer creates a chromedp-based PDF renderer. No browser is
// started until the first render.
func NewChromiumPDFRenderer(config *ChromedpConfig) (*ChromiumPDFRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	if config.DefaultTimeout == 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.Scale == 0 {
		config.Scale = defaultScale
	}
	if config.Template == "" {
		config.Template = DefaultTemplate()
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	renderer := &ChromiumPDFRenderer{
		config:    config,
		logger:    logger,
		templates: NewTemplateEngine(),
	}
	renderer.initAllocator()

	return renderer, nil
}

// initAllocator initializes the Chrome allocator
func (r *ChromiumPDFRenderer) initAllocator() {
	if r.config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), r.config.RemoteURL)
		return
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // Important for Docker
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
}

// Format returns FormatPDF
func (r *ChromiumPDFRenderer) Format() Format {
	return FormatPDF
}

// RenderHTML executes the HTML template over the layout
func (r *ChromiumPDFRenderer) RenderHTML(ctx context.Context, layout *Layout) (string, error) {
	if err := checkLayout(layout); err != nil {
		return "", err
	}
	html, err := r.templates.RenderString(ctx, DefaultTemplateName, r.config.Template, layout)
	if err != nil {
		return "", err
	}
	return buildCompleteHTML(html, layout.Title+" "+layout.Number), nil
}

// Render converts the layout to PDF
func (r *ChromiumPDFRenderer) Render(ctx context.Context, layout *Layout) (*Artifact, error) {
	html, err := r.RenderHTML(ctx, layout)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()
	timeout := r.config.DefaultTimeout

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Cancel the browser tab with the caller's deadline
	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()
	stop := context.AfterFunc(ctx, browserCancel)
	defer stop()

	params := r.buildPrintParams()
	var pdfData []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(params.printBackground).
				WithPaperWidth(params.paperWidth).
				WithPaperHeight(params.paperHeight).
				WithMarginTop(params.marginTop).
				WithMarginRight(params.marginRight).
				WithMarginBottom(params.marginBottom).
				WithMarginLeft(params.marginLeft).
				WithScale(params.scale).
				WithDisplayHeaderFooter(params.displayHeaderFooter).
				WithHeaderTemplate(params.headerTemplate).
				WithFooterTemplate(params.footerTemplate).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)

	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}

	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	r.logger.Info("PDF rendered successfully",
		zap.String("number", layout.Number),
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", estimatePageCount(pdfData)),
		zap.Duration("duration", time.Since(startTime)))

	return newArtifact(layout, FormatPDF, pdfData), nil
}

// printParams holds the parameters for PDF printing
type printParams struct {
	paperWidth          float64
	paperHeight         float64
	marginTop           float64
	marginRight         float64
	marginBottom        float64
	marginLeft          float64
	scale               float64
	printBackground     bool
	displayHeaderFooter bool
	headerTemplate      string
	footerTemplate      string
}

// buildPrintParams returns A4 portrait parameters with a page number footer
func (r *ChromiumPDFRenderer) buildPrintParams() *printParams {
	return &printParams{
		paperWidth:          mmToInches(a4WidthMM),
		paperHeight:         mmToInches(a4HeightMM),
		marginTop:           mmToInches(marginMM),
		marginRight:         mmToInches(marginMM),
		marginBottom:        mmToInches(marginMM + 5),
		marginLeft:          mmToInches(marginMM),
		scale:               r.config.Scale,
		printBackground:     true,
		displayHeaderFooter: true,
		headerTemplate:      "<span></span>",
		footerTemplate:      chromeFooterTemplate,
	}
}

// buildCompleteHTML wraps a fragment in a complete HTML document
func buildCompleteHTML(html, title string) string {
	if strings.Contains(strings.ToLower(html), "<!doctype") ||
		strings.Contains(strings.ToLower(html), "<html") {
		return html
	}

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html><html><head>")
	buf.WriteString("<meta charset=\"UTF-8\">")
	if title != "" {
		buf.WriteString("<title>")
		buf.WriteString(title)
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(html)
	buf.WriteString("</body></html>")

	return buf.String()
}

// Close releases resources held by the renderer
func (r *ChromiumPDFRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// estimatePageCount counts page objects in a PDF
func estimatePageCount(pdfData []byte) int {
	count := bytes.Count(pdfData, []byte("/Type /Page")) - bytes.Count(pdfData, []byte("/Type /Pages"))
	if count < 1 {
		return 1
	}
	return count
}

var _ Renderer = (*ChromiumPDFRenderer)(nil)
