package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/rentaldocs/backend/internal/infrastructure/render"
	"github.com/rentaldocs/backend/internal/interfaces/http/dto"
	"github.com/rentaldocs/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestContext(method, path string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, path, nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/")

	h.Success(c, map[string]string{"number": "Invoice-001"})

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
}

func TestBaseHandlerCreated(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodPost, "/")

	h.Created(c, map[string]string{"id": "1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestBaseHandlerNoContent(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodDelete, "/")

	h.NoContent(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestBaseHandlerErrorMethods(t *testing.T) {
	tests := []struct {
		name       string
		call       func(h *BaseHandler, c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "BadRequest",
			call:       func(h *BaseHandler, c *gin.Context) { h.BadRequest(c, "bad") },
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeBadRequest,
		},
		{
			name:       "NotFound",
			call:       func(h *BaseHandler, c *gin.Context) { h.NotFound(c, "missing") },
			wantStatus: http.StatusNotFound,
			wantCode:   dto.ErrCodeNotFound,
		},
		{
			name:       "ErrorWithCode derives status",
			call:       func(h *BaseHandler, c *gin.Context) { h.ErrorWithCode(c, dto.ErrCodeRenderTimeout, "slow") },
			wantStatus: http.StatusGatewayTimeout,
			wantCode:   dto.ErrCodeRenderTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/")
			c.Set(middleware.RequestIDKey, "req-1")

			tt.call(&BaseHandler{}, c)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-1", resp.Error.RequestID)
		})
	}
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails []dto.ValidationDetail
	}{
		{
			name:        "not found",
			err:         shared.ErrNotFound,
			wantStatus:  http.StatusNotFound,
			wantCode:    dto.ErrCodeNotFound,
			wantMessage: "Resource not found",
		},
		{
			name:        "wrapped unavailable",
			err:         fmt.Errorf("list: %w", shared.ErrUnavailable),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    dto.ErrCodeUnavailable,
			wantMessage: "Collaborator is unavailable",
		},
		{
			name:       "save failed",
			err:        shared.WrapDomainError("SAVE_FAILED", "Document could not be saved", errors.New("disk full")),
			wantStatus: http.StatusBadGateway,
			wantCode:   dto.ErrCodeSaveFailed,
		},
		{
			name:       "number locked",
			err:        shared.NewDomainError("NUMBER_LOCKED", "Number cannot change"),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeInvalidState,
		},
		{
			name:       "unmapped invalid code",
			err:        shared.NewDomainError("INVALID_CURRENCY", "Currency must be three letters"),
			wantStatus: http.StatusBadRequest,
			wantCode:   dto.ErrCodeInvalidInput,
		},
		{
			name: "document validation",
			err: document.ValidationResult{Errors: []document.FieldError{
				{Field: "number", Message: "Number is required"},
				{Field: "items[0].quantity", Message: "Quantity must be greater than zero"},
			}}.Err(),
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    dto.ErrCodeDocumentInvalid,
			wantMessage: "Document is not valid",
			wantDetails: []dto.ValidationDetail{
				{Field: "number", Message: "Number is required"},
				{Field: "items[0].quantity", Message: "Quantity must be greater than zero"},
			},
		},
		{
			name:        "render timeout",
			err:         &render.RenderError{Code: render.ErrCodeRenderTimeout, Message: "Rendering timed out"},
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    dto.ErrCodeRenderTimeout,
			wantMessage: "Rendering timed out",
		},
		{
			name:       "render without items",
			err:        fmt.Errorf("export: %w", &render.RenderError{Code: "NO_ITEMS", Message: "Document has no line items"}),
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   dto.ErrCodeNoItems,
		},
		{
			name:        "unknown error",
			err:         errors.New("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    dto.ErrCodeInternal,
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := newTestContext(http.MethodGet, "/")
			c.Set(middleware.RequestIDKey, "req-42")

			(&BaseHandler{}).HandleError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-42", resp.Error.RequestID)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, resp.Error.Message)
			}
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}
}

func TestBaseHandlerHandleError_Nil(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/")

	(&BaseHandler{}).HandleError(c, nil)

	assert.Empty(t, w.Body.String())
	assert.False(t, c.Writer.Written())
}
