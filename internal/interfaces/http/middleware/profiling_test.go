package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func profiledRouter(cfg ProfilingConfig, seen *map[string]string) *gin.Engine {
	router := gin.New()
	router.Use(Profiling(cfg))
	capture := func(c *gin.Context) {
		labels := map[string]string{}
		pprof.ForLabels(c.Request.Context(), func(key, value string) bool {
			labels[key] = value
			return true
		})
		*seen = labels
		c.Status(http.StatusOK)
	}
	router.GET("/api/v1/documents/:type/:id", capture)
	router.GET("/health", capture)
	return router
}

func TestProfiling_LabelsRequest(t *testing.T) {
	tests := []struct {
		name string
		path string
		want map[string]string
	}{
		{
			name: "known document type",
			path: "/api/v1/documents/purchase-orders/42",
			want: map[string]string{
				"method":        http.MethodGet,
				"route":         "/api/v1/documents/:type/:id",
				"document_type": "purchase_order",
			},
		},
		{
			name: "unknown document type is not a label",
			path: "/api/v1/documents/receipts/42",
			want: map[string]string{
				"method": http.MethodGet,
				"route":  "/api/v1/documents/:type/:id",
			},
		},
		{
			name: "skipped prefix",
			path: "/health",
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen map[string]string
			router := profiledRouter(DefaultProfilingConfig(), &seen)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.want, seen)
		})
	}
}

func TestProfiling_Disabled(t *testing.T) {
	var seen map[string]string
	router := profiledRouter(ProfilingConfig{Enabled: false}, &seen)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/documents/invoice/1", nil).WithContext(context.Background()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, seen)
}
