package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome labels shared by the document metrics
const (
	OutcomeSuccess = "success"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
)

// DocumentMetrics counts saves and exports of quotes, invoices and purchase
// orders. A nil *DocumentMetrics records nothing.
type DocumentMetrics struct {
	saveTotal      *Counter
	exportTotal    *Counter
	renderDuration *Histogram
	artifactSize   *Histogram
}

// NewDocumentMetrics creates the document instruments on meter
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	saveTotal, err := NewCounter(meter, "document_save_total", "Document saves by type and outcome", "{save}")
	if err != nil {
		return nil, err
	}
	exportTotal, err := NewCounter(meter, "document_export_total", "Document exports by type, format and outcome", "{export}")
	if err != nil {
		return nil, err
	}
	renderDuration, err := NewHistogram(meter, HistogramOpts{
		Name:        "document_render_duration_seconds",
		Description: "Time spent rendering an export",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	artifactSize, err := NewHistogram(meter, HistogramOpts{
		Name:        "document_artifact_size_bytes",
		Description: "Size of rendered exports",
		Unit:        "By",
		Boundaries:  ArtifactSizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &DocumentMetrics{
		saveTotal:      saveTotal,
		exportTotal:    exportTotal,
		renderDuration: renderDuration,
		artifactSize:   artifactSize,
	}, nil
}

// RecordSave counts one save attempt
func (m *DocumentMetrics) RecordSave(ctx context.Context, docType, outcome string) {
	if m == nil {
		return
	}
	m.saveTotal.Inc(ctx, AttrDocumentType.String(docType), AttrOutcome.String(outcome))
}

// RecordExport counts one export and, when it produced a file, its render
// time and size
func (m *DocumentMetrics) RecordExport(ctx context.Context, docType, format, outcome string, elapsed time.Duration, size int) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrDocumentType.String(docType), AttrFormat.String(format)}
	m.exportTotal.Inc(ctx, append(attrs, AttrOutcome.String(outcome))...)
	if outcome != OutcomeSuccess {
		return
	}
	m.renderDuration.RecordDuration(ctx, elapsed, attrs...)
	m.artifactSize.Record(ctx, float64(size), attrs...)
}
