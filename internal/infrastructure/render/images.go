package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rentaldocs/backend/internal/domain/branding"
	"go.uber.org/zap"
)

const (
	defaultImageTimeout = 10 * time.Second
	maxImageBytes       = 5 << 20
)

// Image is a decoded branding image
type Image struct {
	Data   []byte
	Format string // png, jpeg or gif
	Width  int
	Height int
}

// Extension returns the file extension with a leading dot
func (i *Image) Extension() string {
	if i.Format == "jpeg" {
		return ".jpg"
	}
	return "." + i.Format
}

// ContentType returns the MIME type of the image
func (i *Image) ContentType() string {
	return "image/" + i.Format
}

// FitWithin returns the image size scaled down to fit the box, keeping the
// aspect ratio. Images smaller than the box keep their size.
func (i *Image) FitWithin(maxWidth, maxHeight float64) (float64, float64) {
	w, h := float64(i.Width), float64(i.Height)
	if w <= 0 || h <= 0 {
		return maxWidth, maxHeight
	}
	scale := 1.0
	if w > maxWidth {
		scale = maxWidth / w
	}
	if h*scale > maxHeight {
		scale = maxHeight / h
	}
	return w * scale, h * scale
}

// Images holds the branding images of a layout. A nil field is omitted.
type Images struct {
	Logo      *Image
	Seal      *Image
	Signature *Image
}

// Get returns the image of an asset type
func (im Images) Get(asset branding.AssetType) *Image {
	switch asset {
	case branding.AssetLogo:
		return im.Logo
	case branding.AssetSeal:
		return im.Seal
	case branding.AssetSignature:
		return im.Signature
	}
	return nil
}

func (im *Images) set(asset branding.AssetType, img *Image) {
	switch asset {
	case branding.AssetLogo:
		im.Logo = img
	case branding.AssetSeal:
		im.Seal = img
	case branding.AssetSignature:
		im.Signature = img
	}
}

// ImageLoaderConfig contains configuration for the image loader
type ImageLoaderConfig struct {
	// BaseURL resolves API-relative paths such as /uploads/logo.png
	BaseURL string
	// Timeout bounds each HTTP fetch
	Timeout time.Duration
	// Resolver supplies asset URLs missing from the branding settings (optional)
	Resolver branding.AssetResolver
	// HTTPClient overrides the default client (optional)
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// ImageLoader fetches and decodes branding images. Every failure degrades to
// "no image" and is logged.
type ImageLoader struct {
	baseURL  string
	resolver branding.AssetResolver
	client   *http.Client
	logger   *zap.Logger
}

// NewImageLoader creates an image loader
func NewImageLoader(cfg ImageLoaderConfig) *ImageLoader {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultImageTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageLoader{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		resolver: cfg.Resolver,
		client:   client,
		logger:   logger,
	}
}

// LoadAssets loads the logo, seal and signature of the branding settings.
// Assets without a configured source are looked up through the resolver.
func (l *ImageLoader) LoadAssets(ctx context.Context, settings branding.Settings) Images {
	var images Images
	for _, asset := range branding.AllAssetTypes() {
		src := settings.AssetURL(asset)
		if src == "" && l.resolver != nil {
			resolved, found, err := l.resolver.ResolveAsset(ctx, asset)
			if err != nil {
				l.logger.Warn("branding asset lookup failed",
					zap.String("asset", string(asset)), zap.Error(err))
				continue
			}
			if !found {
				continue
			}
			src = resolved
		}
		if src == "" {
			continue
		}
		images.set(asset, l.Load(ctx, src))
	}
	return images
}

// Load reads an image from a data URL, an absolute http(s) URL or an
// API-relative path. It returns nil when the image cannot be used.
func (l *ImageLoader) Load(ctx context.Context, src string) *Image {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil
	}

	data, err := l.read(ctx, src)
	if err != nil {
		l.logger.Warn("image skipped", zap.String("source", abbreviate(src)), zap.Error(err))
		return nil
	}

	img, err := DecodeImage(data)
	if err != nil {
		l.logger.Warn("image skipped", zap.String("source", abbreviate(src)), zap.Error(err))
		return nil
	}
	return img
}

func (l *ImageLoader) read(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		return dataURLToBytes(src)
	}

	target := src
	if !strings.HasPrefix(src, "http://") && !strings.HasPrefix(src, "https://") {
		if l.baseURL == "" {
			return nil, fmt.Errorf("relative image path %q without a base URL", src)
		}
		joined, err := url.JoinPath(l.baseURL, src)
		if err != nil {
			return nil, fmt.Errorf("invalid image path: %w", err)
		}
		target = joined
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return data, nil
}

// DecodeImage checks that data is a PNG, JPEG or GIF image and reads its size
func DecodeImage(data []byte) (*Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("image has no size")
	}
	return &Image{Data: data, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// dataURLToBytes converts a data URL to bytes
func dataURLToBytes(dataURL string) ([]byte, error) {
	// Format: data:image/png;base64,iVBORw0KGgo...
	header, payload, ok := strings.Cut(dataURL, ",")
	if !ok {
		return nil, fmt.Errorf("invalid data URL format")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("data URL is not base64 encoded")
	}
	return base64.StdEncoding.DecodeString(payload)
}

func abbreviate(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
