// Package middleware provides HTTP middleware for the document API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rentaldocs/backend/internal/infrastructure/logger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider
}

// TracingWithConfig returns OpenTelemetry tracing middleware. Spans are
// named after the route pattern and carry the request ID; 5xx responses
// mark the span as failed.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	var opts []otelgin.Option
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// SpanAttributes enriches the active span with request and document
// attributes. It must run after TracingWithConfig and DocumentContext.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			ctx := c.Request.Context()
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if docType := logger.GetDocumentType(ctx); docType != "" {
				span.SetAttributes(attribute.String("document.type", docType))
			}
			if docID := logger.GetDocumentID(ctx); docID != "" {
				span.SetAttributes(attribute.String("document.id", docID))
			}
		}

		c.Next()

		if span.IsRecording() && c.Writer.Status() >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(c.Writer.Status()))
		}
	}
}

// DocumentContext copies the :type and :id route parameters into the
// request context so logs and spans can be tagged with them
func DocumentContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		docType := c.Param("type")
		id := c.Param("id")
		if docType != "" || id != "" {
			c.Request = c.Request.WithContext(logger.WithDocument(c.Request.Context(), docType, id))
		}
		c.Next()
	}
}
