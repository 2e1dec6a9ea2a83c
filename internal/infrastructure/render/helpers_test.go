package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/domain/document"
	"github.com/rentaldocs/backend/internal/domain/partner"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 31, G: 78, B: 121, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pngDataURL(t *testing.T, width, height int) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t, width, height))
}

func testImage(t *testing.T, width, height int) *Image {
	t.Helper()
	img, err := DecodeImage(pngBytes(t, width, height))
	require.NoError(t, err)
	return img
}

func testSettings() branding.Settings {
	return branding.Settings{
		CompanyName: "Falcon Car Rental LLC",
		Address:     "Office 12, Al Quoz\nDubai, UAE",
		Phone:       "+971 4 123 4567",
		Email:       "accounts@falconrental.ae",
		VATNumber:   "100123456700003",
		BankDetails: "Emirates NBD\nIBAN AE07 0331 2345 6789 0123 456",
		FooterText:  "Thank you for your business",
	}
}

// newTestDocument builds a document with a customer and the given items
func newTestDocument(t *testing.T, docType document.DocType, number string, items ...document.LineItem) *document.Document {
	t.Helper()
	doc, err := document.NewDocument(docType)
	require.NoError(t, err)
	require.NoError(t, doc.SetNumber(number))
	due := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	doc.SetDates(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), &due)
	doc.SetCounterparty(document.Counterparty{
		ID: uuid.New(),
		Contact: partner.Contact{
			Name:    "Ahmed Ali",
			Company: "Gulf Logistics LLC",
			Phone:   "+971 50 000 0000",
			TRN:     "100987654300003",
		},
	})
	doc.SetItems(items)
	return doc
}

func sedanItem() document.LineItem {
	return document.NewLineItem("Sedan Rental", 2, 100, document.PercentTax(5))
}

func driverItem() document.LineItem {
	item := document.NewLineItem("Driver", 8, 25, document.NoTax())
	item.RentalBasis = document.RentalBasisHourly
	return item
}

func testLayout(t *testing.T, docType document.DocType, number string, items ...document.LineItem) *Layout {
	t.Helper()
	doc := newTestDocument(t, docType, number, items...)
	layout, err := BuildLayout(doc, testSettings(), "", Images{})
	require.NoError(t, err)
	return layout
}
