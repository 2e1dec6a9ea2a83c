package render

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
)

// Download writes the artifact as an attachment response
func Download(w http.ResponseWriter, a *Artifact) error {
	if a == nil {
		return fmt.Errorf("artifact is nil")
	}

	contentType := a.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": a.Filename})
	if disposition == "" {
		disposition = "attachment"
	}

	header := w.Header()
	header.Set("Content-Type", contentType)
	header.Set("Content-Disposition", disposition)
	header.Set("Content-Length", strconv.Itoa(len(a.Data)))
	header.Set("Cache-Control", "no-store")
	header.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(a.Data); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}
