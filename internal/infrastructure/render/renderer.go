package render

import (
	"context"
	"regexp"
	"strings"

	"github.com/rentaldocs/backend/internal/domain/document"
)

// Format is an export file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
)

// Content types of the generated artifacts
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypePDF  = "application/pdf"
)

// IsValid checks if the Format is a supported value
func (f Format) IsValid() bool {
	switch f {
	case FormatXLSX, FormatDOCX, FormatPDF:
		return true
	}
	return false
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return ContentTypeXLSX
	case FormatDOCX:
		return ContentTypeDOCX
	case FormatPDF:
		return ContentTypePDF
	}
	return "application/octet-stream"
}

// ParseFormat parses a format name or file extension ("xlsx", ".PDF", "word")
func ParseFormat(s string) (Format, bool) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), ".") {
	case "xlsx", "excel", "spreadsheet":
		return FormatXLSX, true
	case "docx", "word":
		return FormatDOCX, true
	case "pdf":
		return FormatPDF, true
	}
	return "", false
}

// Artifact is a rendered file ready to be downloaded
type Artifact struct {
	Data        []byte
	Filename    string
	ContentType string
}

// Size returns the artifact size in bytes
func (a *Artifact) Size() int {
	if a == nil {
		return 0
	}
	return len(a.Data)
}

// Renderer paints a layout plan in one file format
type Renderer interface {
	// Format returns the format this renderer produces
	Format() Format
	// Render paints the layout. It fails only when the output would be
	// meaningless; missing images are omitted.
	Render(ctx context.Context, layout *Layout) (*Artifact, error)
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename returns "<doctype>-<number>.<ext>" with the number made safe for
// file systems
func Filename(docType document.DocType, number string, format Format) string {
	safe := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(number), "_"), "_")
	if safe == "" {
		safe = "draft"
	}
	return docType.FileSlug() + "-" + safe + "." + string(format)
}

func newArtifact(layout *Layout, format Format, data []byte) *Artifact {
	return &Artifact{
		Data:        data,
		Filename:    Filename(layout.DocType, layout.Number, format),
		ContentType: format.ContentType(),
	}
}

// RenderError represents an error during rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout     = "RENDER_TIMEOUT"
	ErrCodeRenderFailed      = "RENDER_FAILED"
	ErrCodeInvalidHTML       = "INVALID_HTML"
	ErrCodeNoItems           = "NO_ITEMS"
	ErrCodeInvalidLayout     = "INVALID_LAYOUT"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	ErrCodeWriteFailed       = "WRITE_FAILED"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// checkLayout rejects layouts no painter can produce a meaningful file from
func checkLayout(layout *Layout) error {
	if layout == nil {
		return NewRenderError(ErrCodeInvalidLayout, "layout is nil", nil)
	}
	if len(layout.Items) == 0 {
		return NewRenderError(ErrCodeNoItems, "document has no line items", nil)
	}
	return nil
}
