package render

import (
	"context"
	"time"

	"github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Service renders documents in any registered format. Each call loads its
// own images and builds its own layout; nothing is shared between renders.
type Service struct {
	renderers map[Format]Renderer
	images    *ImageLoader
	logger    *zap.Logger
}

// NewService creates a render service. A later renderer replaces an
// earlier one of the same format.
func NewService(images *ImageLoader, logger *zap.Logger, renderers ...Renderer) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if images == nil {
		images = NewImageLoader(ImageLoaderConfig{Logger: logger})
	}
	s := &Service{
		renderers: make(map[Format]Renderer, len(renderers)),
		images:    images,
		logger:    logger,
	}
	for _, r := range renderers {
		s.renderers[r.Format()] = r
	}
	return s
}

// Supports reports whether a renderer is registered for the format
func (s *Service) Supports(format Format) bool {
	_, ok := s.renderers[format]
	return ok
}

// Render produces the artifact of a document. The document must have passed
// export validation; a document without items is rejected.
func (s *Service) Render(ctx context.Context, doc *document.Document, settings branding.Settings, counterpartyName string, format Format) (*Artifact, error) {
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, NewRenderError(ErrCodeUnsupportedFormat, "unsupported export format: "+string(format), nil)
	}
	if doc == nil || len(doc.Items) == 0 {
		return nil, NewRenderError(ErrCodeNoItems, "document has no line items", nil)
	}

	startTime := time.Now()
	images := s.images.LoadAssets(ctx, settings)

	layout, err := BuildLayout(doc, settings, counterpartyName, images)
	if err != nil {
		return nil, err
	}

	var artifact *Artifact
	telemetry.WithProfilingLabels(ctx, telemetry.RenderLabels(string(doc.Type), string(format)), func(ctx context.Context) {
		artifact, err = renderer.Render(ctx, layout)
	})
	if err != nil {
		s.logger.Error("render failed",
			zap.String("document_id", doc.ID.String()),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("document rendered",
		zap.String("document_id", doc.ID.String()),
		zap.String("number", doc.Number),
		zap.String("format", string(format)),
		zap.String("filename", artifact.Filename),
		zap.Int("bytes", artifact.Size()),
		zap.Duration("duration", time.Since(startTime)))

	return artifact, nil
}

// Close releases renderers that hold resources
func (s *Service) Close() error {
	for _, r := range s.renderers {
		if closer, ok := r.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				return err
			}
		}
	}
	return nil
}
