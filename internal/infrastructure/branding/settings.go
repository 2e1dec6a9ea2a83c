package branding

import (
	"context"
	"strings"

	domain "github.com/rentaldocs/backend/internal/domain/branding"
	"github.com/rentaldocs/backend/internal/infrastructure/config"
)

var _ domain.SettingsProvider = (*StaticSettingsProvider)(nil)

// StaticSettingsProvider serves the company profile from configuration
type StaticSettingsProvider struct {
	settings domain.Settings
}

// NewStaticSettingsProvider builds the provider. Escaped "\n" sequences in
// multi-line fields, common in environment variables, become line breaks.
func NewStaticSettingsProvider(cfg config.BrandingConfig) *StaticSettingsProvider {
	return &StaticSettingsProvider{settings: domain.Settings{
		CompanyName:  strings.TrimSpace(cfg.CompanyName),
		Address:      unescapeLines(cfg.Address),
		Phone:        cfg.Phone,
		Email:        cfg.Email,
		Website:      cfg.Website,
		VATNumber:    cfg.VATNumber,
		BankDetails:  unescapeLines(cfg.BankDetails),
		FooterText:   cfg.FooterText,
		LogoURL:      cfg.LogoURL,
		SealURL:      cfg.SealURL,
		SignatureURL: cfg.SignatureURL,
	}}
}

// Settings implements branding.SettingsProvider
func (p *StaticSettingsProvider) Settings(context.Context) (domain.Settings, error) {
	return p.settings, nil
}

func unescapeLines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
