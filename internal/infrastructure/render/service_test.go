package render

import (
	"context"
	"errors"
	"testing"

	"github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockRenderer struct {
	mock.Mock
}

func (m *mockRenderer) Format() Format {
	return m.Called().Get(0).(Format)
}

func (m *mockRenderer) Render(ctx context.Context, layout *Layout) (*Artifact, error) {
	args := m.Called(ctx, layout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Artifact), args.Error(1)
}

type closingRenderer struct {
	mockRenderer
	closed bool
}

func (c *closingRenderer) Close() error {
	c.closed = true
	return nil
}

func TestService_Render(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("spreadsheet artifact", func(t *testing.T) {
		svc := NewService(nil, logger, NewSpreadsheetRenderer(logger))
		doc := newTestDocument(t, document.DocTypeInvoice, "Invoice-001", sedanItem())

		artifact, err := svc.Render(ctx, doc, testSettings(), "", FormatXLSX)

		require.NoError(t, err)
		assert.Equal(t, "invoice-Invoice-001.xlsx", artifact.Filename)
		assert.Equal(t, ContentTypeXLSX, artifact.ContentType)
		assert.Positive(t, artifact.Size())
	})

	t.Run("layout carries counterparty name and branding images", func(t *testing.T) {
		renderer := new(mockRenderer)
		renderer.On("Format").Return(FormatPDF)
		var captured *Layout
		renderer.On("Render", mock.Anything, mock.AnythingOfType("*render.Layout")).
			Run(func(args mock.Arguments) { captured = args.Get(1).(*Layout) }).
			Return(&Artifact{Data: []byte("%PDF"), Filename: "quote-Quote-001.pdf"}, nil)
		svc := NewService(NewImageLoader(ImageLoaderConfig{Logger: logger}), logger, renderer)

		settings := testSettings()
		settings.LogoURL = pngDataURL(t, 20, 10)
		doc := newTestDocument(t, document.DocTypeQuote, "Quote-001", sedanItem())

		_, err := svc.Render(ctx, doc, settings, "Gulf Logistics (Dubai)", FormatPDF)

		require.NoError(t, err)
		require.NotNil(t, captured)
		assert.Equal(t, "Gulf Logistics (Dubai)", captured.Counterparty.Name)
		require.NotNil(t, captured.Images.Logo)
		assert.Equal(t, 20, captured.Images.Logo.Width)
		assert.Nil(t, captured.Images.Seal)
		renderer.AssertExpectations(t)
	})

	t.Run("unsupported format", func(t *testing.T) {
		svc := NewService(nil, logger, NewSpreadsheetRenderer(logger))
		doc := newTestDocument(t, document.DocTypeQuote, "Quote-001", sedanItem())

		_, err := svc.Render(ctx, doc, branding.Settings{}, "", FormatPDF)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeUnsupportedFormat, renderErr.Code)
		assert.False(t, svc.Supports(FormatPDF))
		assert.True(t, svc.Supports(FormatXLSX))
	})

	t.Run("document without items", func(t *testing.T) {
		svc := NewService(nil, logger, NewSpreadsheetRenderer(logger))
		doc := newTestDocument(t, document.DocTypeQuote, "Quote-001")

		_, err := svc.Render(ctx, doc, branding.Settings{}, "", FormatXLSX)

		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeNoItems, renderErr.Code)
	})

	t.Run("renderer failure is returned", func(t *testing.T) {
		renderer := new(mockRenderer)
		renderer.On("Format").Return(FormatDOCX)
		renderer.On("Render", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))
		svc := NewService(nil, logger, renderer)
		doc := newTestDocument(t, document.DocTypeQuote, "Quote-001", sedanItem())

		_, err := svc.Render(ctx, doc, branding.Settings{}, "", FormatDOCX)

		assert.EqualError(t, err, "disk full")
	})
}

func TestService_Close(t *testing.T) {
	closer := &closingRenderer{}
	closer.On("Format").Return(FormatPDF)
	svc := NewService(nil, nil, NewWordRenderer(nil), closer)

	require.NoError(t, svc.Close())
	assert.True(t, closer.closed)
}
