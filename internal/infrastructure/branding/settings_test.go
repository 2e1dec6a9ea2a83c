package branding

import (
	"context"
	"testing"

	"github.com/rentaldocs/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSettingsProvider(t *testing.T) {
	provider := NewStaticSettingsProvider(config.BrandingConfig{
		CompanyName: "  Desert Fleet Rentals LLC ",
		Address:     `Office 12\nAl Quoz 3\nDubai`,
		VATNumber:   "100200300400003",
		BankDetails: `Emirates NBD\nIBAN AE07 0331 2345 6789 0123 456`,
		LogoURL:     "/uploads/logo.png",
	})

	settings, err := provider.Settings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Desert Fleet Rentals LLC", settings.CompanyName)
	assert.Equal(t, "Office 12\nAl Quoz 3\nDubai", settings.Address)
	assert.Equal(t, "Emirates NBD\nIBAN AE07 0331 2345 6789 0123 456", settings.BankDetails)
	assert.Equal(t, "100200300400003", settings.VATNumber)
	assert.Equal(t, "/uploads/logo.png", settings.LogoURL)
	assert.Empty(t, settings.SealURL)
}
