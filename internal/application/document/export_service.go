package document

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/infrastructure/render"
	"github.com/rentaldocs/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// DocumentRenderer produces a downloadable artifact from a document
type DocumentRenderer interface {
	Render(ctx context.Context, doc *document.Document, settings branding.Settings, counterpartyName string, format render.Format) (*render.Artifact, error)
}

// ExportService gates rendering behind export validation
type ExportService struct {
	documents *DocumentService
	renderer  DocumentRenderer
	settings  branding.SettingsProvider
	logger    *zap.Logger
	metrics   *telemetry.DocumentMetrics
}

// ExportOption configures the export service
type ExportOption func(*ExportService)

// WithExportMetrics records export outcomes on m
func WithExportMetrics(m *telemetry.DocumentMetrics) ExportOption {
	return func(s *ExportService) {
		s.metrics = m
	}
}

// NewExportService creates a new ExportService
func NewExportService(
	documents *DocumentService,
	renderer DocumentRenderer,
	settings branding.SettingsProvider,
	logger *zap.Logger,
	opts ...ExportOption,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		documents: documents,
		renderer:  renderer,
		settings:  settings,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Export renders a stored document. Exporting has no effect on the stored
// document.
func (s *ExportService) Export(ctx context.Context, docType document.DocType, id uuid.UUID, format render.Format) (*render.Artifact, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "export",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentType, string(docType)),
		telemetry.WithAttribute(telemetry.SpanAttrDocumentID, id.String()),
		telemetry.WithAttribute(telemetry.SpanAttrExportFormat, string(format)))
	defer span.End()

	doc, err := s.documents.Get(ctx, docType, id)
	if err != nil {
		return nil, err
	}

	artifact, err := s.render(ctx, doc, format)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return artifact, nil
}

// ExportNew is the create flow: the document is validated and saved first,
// then rendered
func (s *ExportService) ExportNew(ctx context.Context, docType document.DocType, req DocumentRequest, format render.Format) (*render.Artifact, *document.Document, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "document", "export_new",
		telemetry.WithAttribute(telemetry.SpanAttrDocumentType, string(docType)),
		telemetry.WithAttribute(telemetry.SpanAttrExportFormat, string(format)))
	defer span.End()

	doc, err := s.documents.Create(ctx, docType, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, nil, err
	}

	artifact, err := s.render(ctx, doc, format)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, doc, err
	}
	return artifact, doc, nil
}

// CheckExport runs the export checks on an unsaved request. Nothing is
// stored or rendered.
func (s *ExportService) CheckExport(ctx context.Context, docType document.DocType, req DocumentRequest) (document.ValidationResult, error) {
	doc, err := s.documents.Draft(ctx, docType, req)
	if err != nil {
		return document.ValidationResult{}, err
	}
	return document.ValidateForExport(doc), nil
}

func (s *ExportService) render(ctx context.Context, doc *document.Document, format render.Format) (*render.Artifact, error) {
	if result := document.ValidateForExport(doc); !result.IsValid() {
		s.metrics.RecordExport(ctx, string(doc.Type), string(format), telemetry.OutcomeInvalid, 0, 0)
		return nil, result.Err()
	}

	var settings branding.Settings
	if s.settings != nil {
		loaded, err := s.settings.Settings(ctx)
		if err != nil {
			s.logger.Warn("branding settings unavailable, rendering without branding", zap.Error(err))
		} else {
			settings = loaded
		}
	}

	name := s.documents.CounterpartyName(ctx, doc)
	start := time.Now()
	artifact, err := s.renderer.Render(ctx, doc, settings, name, format)
	if err != nil {
		s.metrics.RecordExport(ctx, string(doc.Type), string(format), renderOutcome(err), 0, 0)
		s.logger.Error("document render failed",
			zap.String("id", doc.ID.String()),
			zap.String("format", string(format)),
			zap.Error(err))
		return nil, err
	}

	s.metrics.RecordExport(ctx, string(doc.Type), string(format), telemetry.OutcomeSuccess, time.Since(start), artifact.Size())
	s.logger.Info("document exported",
		zap.String("id", doc.ID.String()),
		zap.String("number", doc.Number),
		zap.String("format", string(format)),
		zap.Int("bytes", len(artifact.Data)))

	return artifact, nil
}

// renderOutcome separates documents a renderer refused from renderer faults
func renderOutcome(err error) string {
	var renderErr *render.RenderError
	if errors.As(err, &renderErr) && renderErr.Code == render.ErrCodeNoItems {
		return telemetry.OutcomeInvalid
	}
	return telemetry.OutcomeFailed
}
