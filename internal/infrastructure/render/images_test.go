package render

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockAssetResolver struct {
	mock.Mock
}

func (m *mockAssetResolver) ResolveAsset(ctx context.Context, asset branding.AssetType) (string, bool, error) {
	args := m.Called(ctx, asset)
	return args.String(0), args.Bool(1), args.Error(2)
}

func newImageServer(t *testing.T, body []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/uploads/logo.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(body)
		case "/uploads/broken.png":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestImageLoader_Load(t *testing.T) {
	ctx := context.Background()
	data := pngBytes(t, 40, 20)
	server := newImageServer(t, data)
	loader := NewImageLoader(ImageLoaderConfig{BaseURL: server.URL + "/api", Logger: zaptest.NewLogger(t)})

	t.Run("data URL", func(t *testing.T) {
		img := loader.Load(ctx, pngDataURL(t, 40, 20))
		require.NotNil(t, img)
		assert.Equal(t, "png", img.Format)
		assert.Equal(t, 40, img.Width)
		assert.Equal(t, 20, img.Height)
	})

	t.Run("absolute URL", func(t *testing.T) {
		img := loader.Load(ctx, server.URL+"/uploads/logo.png")
		require.NotNil(t, img)
		assert.Equal(t, data, img.Data)
	})

	t.Run("relative path joins the base URL", func(t *testing.T) {
		rooted := NewImageLoader(ImageLoaderConfig{BaseURL: server.URL + "/", Logger: zaptest.NewLogger(t)})
		img := rooted.Load(ctx, "/uploads/logo.png")
		require.NotNil(t, img)
		assert.Equal(t, 40, img.Width)

		assert.Nil(t, loader.Load(ctx, "/uploads/logo.png"))
	})

	t.Run("relative path without base URL", func(t *testing.T) {
		noBase := NewImageLoader(ImageLoaderConfig{Logger: zaptest.NewLogger(t)})
		assert.Nil(t, noBase.Load(ctx, "/uploads/logo.png"))
	})

	t.Run("missing image", func(t *testing.T) {
		assert.Nil(t, loader.Load(ctx, server.URL+"/uploads/missing.png"))
	})

	t.Run("undecodable image", func(t *testing.T) {
		assert.Nil(t, loader.Load(ctx, server.URL+"/uploads/broken.png"))
	})

	t.Run("malformed data URL", func(t *testing.T) {
		assert.Nil(t, loader.Load(ctx, "data:image/png;base64"))
		assert.Nil(t, loader.Load(ctx, "data:image/svg+xml,<svg/>"))
		assert.Nil(t, loader.Load(ctx, "data:image/png;base64,!!!"))
	})

	t.Run("empty source", func(t *testing.T) {
		assert.Nil(t, loader.Load(ctx, "  "))
	})
}

func TestImageLoader_LoadAssets(t *testing.T) {
	ctx := context.Background()
	server := newImageServer(t, pngBytes(t, 10, 10))

	t.Run("settings take precedence over the resolver", func(t *testing.T) {
		resolver := new(mockAssetResolver)
		resolver.On("ResolveAsset", mock.Anything, branding.AssetSeal).Return(server.URL+"/uploads/logo.png", true, nil)
		resolver.On("ResolveAsset", mock.Anything, branding.AssetSignature).Return("", false, nil)
		loader := NewImageLoader(ImageLoaderConfig{Resolver: resolver, Logger: zaptest.NewLogger(t)})

		images := loader.LoadAssets(ctx, branding.Settings{LogoURL: pngDataURL(t, 30, 15)})

		require.NotNil(t, images.Logo)
		assert.Equal(t, 30, images.Logo.Width)
		require.NotNil(t, images.Seal)
		assert.Equal(t, 10, images.Seal.Width)
		assert.Nil(t, images.Signature)
		resolver.AssertExpectations(t)
		resolver.AssertNotCalled(t, "ResolveAsset", mock.Anything, branding.AssetLogo)
	})

	t.Run("resolver errors omit the asset", func(t *testing.T) {
		resolver := new(mockAssetResolver)
		resolver.On("ResolveAsset", mock.Anything, mock.Anything).Return("", false, errors.New("access denied"))
		loader := NewImageLoader(ImageLoaderConfig{Resolver: resolver, Logger: zaptest.NewLogger(t)})

		images := loader.LoadAssets(ctx, branding.Settings{})

		assert.Nil(t, images.Logo)
		assert.Nil(t, images.Seal)
		assert.Nil(t, images.Signature)
	})

	t.Run("no sources", func(t *testing.T) {
		loader := NewImageLoader(ImageLoaderConfig{})
		assert.Equal(t, Images{}, loader.LoadAssets(ctx, branding.Settings{}))
	})
}

func TestImage_FitWithin(t *testing.T) {
	tests := []struct {
		name         string
		width        int
		height       int
		maxW, maxH   float64
		wantW, wantH float64
	}{
		{"smaller than box", 20, 10, 40, 40, 20, 10},
		{"too wide", 200, 50, 40, 40, 40, 10},
		{"too tall", 50, 200, 40, 40, 10, 40},
		{"wide and tall", 400, 300, 40, 20, 26.666666666666668, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{Width: tt.width, Height: tt.height}
			w, h := img.FitWithin(tt.maxW, tt.maxH)
			assert.InDelta(t, tt.wantW, w, 1e-9)
			assert.InDelta(t, tt.wantH, h, 1e-9)
		})
	}
}

func TestImage_Extension(t *testing.T) {
	assert.Equal(t, ".png", (&Image{Format: "png"}).Extension())
	assert.Equal(t, ".jpg", (&Image{Format: "jpeg"}).Extension())
	assert.Equal(t, "image/jpeg", (&Image{Format: "jpeg"}).ContentType())
}

func TestImages_Get(t *testing.T) {
	logo := &Image{Format: "png"}
	images := Images{Logo: logo}
	assert.Same(t, logo, images.Get(branding.AssetLogo))
	assert.Nil(t, images.Get(branding.AssetSeal))
	assert.Nil(t, images.Get("stamp"))
}
