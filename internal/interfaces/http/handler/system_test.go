package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rentaldocs/backend/internal/domain/shared"
	"github.com/rentaldocs/backend/internal/interfaces/http/dto"
	"github.com/rentaldocs/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSystemEngine(store HealthChecker) *gin.Engine {
	engine := gin.New()
	router.NewRouter(engine).RegisterRoot(SystemRoutes(NewSystemHandler("rental-docs", "1.2.0", store))).Setup()
	return engine
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("rental-docs", "1.2.0", nil)
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("store up", func(t *testing.T) {
		store := new(MockHealthChecker)
		store.On("Health", mock.Anything).Return(nil)
		f := documentFixture{engine: newSystemEngine(store)}

		w := f.do(http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := responseData(t, w)
		assert.Equal(t, "ok", data["status"])
		assert.Equal(t, "up", data["store"])
		assert.Equal(t, "rental-docs", data["name"])
		assert.Equal(t, "1.2.0", data["version"])
		assert.NotEmpty(t, data["go_version"])
		store.AssertExpectations(t)
	})

	t.Run("store down", func(t *testing.T) {
		store := new(MockHealthChecker)
		store.On("Health", mock.Anything).Return(shared.ErrUnavailable)
		f := documentFixture{engine: newSystemEngine(store)}

		w := f.do(http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeResponse(t, w)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeUnavailable, resp.Error.Code)
		data, ok := resp.Data.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "down", data["store"])
	})

	t.Run("no store configured", func(t *testing.T) {
		f := documentFixture{engine: newSystemEngine(nil)}

		w := f.do(http.MethodGet, "/health", nil)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestSystemHandler_Ping(t *testing.T) {
	store := new(MockHealthChecker)
	f := documentFixture{engine: newSystemEngine(store)}

	w := f.do(http.MethodGet, "/health/live", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "pong", data["message"])
	assert.NotEmpty(t, data["timestamp"])
	store.AssertNotCalled(t, "Health", mock.Anything)
}
