package render

import (
	_ "embed"
)

// DefaultTemplateName names the built-in HTML document template
const DefaultTemplateName = "document"

//go:embed templates/document.html
var defaultDocumentTemplate string

// DefaultTemplate returns the built-in HTML template used by the Chromium
// PDF renderer
func DefaultTemplate() string {
	return defaultDocumentTemplate
}
