// Package render turns documents into downloadable office artifacts.
//
// Every export goes through one layout plan (BuildLayout) that computes the
// text and amounts of each section once. Format specific painters only
// decide how the plan is drawn:
//
//   - SpreadsheetRenderer writes an XLSX workbook with live formulas (excelize)
//   - WordRenderer writes a WordprocessingML package with literal amounts
//   - PDFRenderer paints a paginated A4 document (gofpdf)
//   - ChromiumPDFRenderer prints an HTML template through Chrome (chromedp)
//
// Example usage:
//
//	svc := render.NewService(render.NewImageLoader(render.ImageLoaderConfig{BaseURL: apiURL}), logger,
//	    render.NewSpreadsheetRenderer(logger), render.NewWordRenderer(logger),
//	    render.NewPDFRenderer(render.PDFConfig{Logger: logger}))
//
//	artifact, err := svc.Render(ctx, doc, settings, "Gulf Logistics LLC", render.FormatXLSX)
//	if err != nil {
//	    return err
//	}
//	return render.Download(w, artifact)
package render
