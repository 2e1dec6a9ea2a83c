package branding

import "context"

// AssetType is the logical kind of a branding image
type AssetType string

const (
	AssetLogo      AssetType = "logo"
	AssetSeal      AssetType = "seal"
	AssetSignature AssetType = "signature"
)

// IsValid checks if the AssetType is a valid value
func (a AssetType) IsValid() bool {
	switch a {
	case AssetLogo, AssetSeal, AssetSignature:
		return true
	}
	return false
}

// AllAssetTypes returns all valid AssetType values
func AllAssetTypes() []AssetType {
	return []AssetType{AssetLogo, AssetSeal, AssetSignature}
}

// Settings is the company profile printed on every document
type Settings struct {
	CompanyName string `json:"companyName"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	VATNumber   string `json:"vatNumber"`
	BankDetails string `json:"bankDetails"`
	FooterText  string `json:"footerText"`

	// Asset sources: data URLs, absolute URLs or API-relative paths.
	// Empty means the asset is omitted.
	LogoURL      string `json:"logoUrl"`
	SealURL      string `json:"sealUrl"`
	SignatureURL string `json:"signatureUrl"`
}

// AssetURL returns the configured source of an asset
func (s Settings) AssetURL(asset AssetType) string {
	switch asset {
	case AssetLogo:
		return s.LogoURL
	case AssetSeal:
		return s.SealURL
	case AssetSignature:
		return s.SignatureURL
	}
	return ""
}

// AssetResolver resolves a branding asset to a fetchable URL. found is false
// when the asset does not exist; callers then omit it.
type AssetResolver interface {
	ResolveAsset(ctx context.Context, asset AssetType) (url string, found bool, err error)
}

// SettingsProvider supplies the current branding settings
type SettingsProvider interface {
	Settings(ctx context.Context) (Settings, error)
}
