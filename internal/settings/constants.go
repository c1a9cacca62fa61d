package settings

// Document keys and defaults for the settings store.
const (
	// AppNameKey is the key for the application display name.
	AppNameKey = "appName"
	// DefaultAppName is the fallback application display name.
	DefaultAppName = "Wealthora"
	// AppLogoKey is the key for the application logo URL.
	AppLogoKey = "appLogo"
	// ThemeColorKey is the key for the UI theme color.
	ThemeColorKey = "themeColor"
	// DefaultThemeColor is the fallback UI theme color.
	DefaultThemeColor = "#1f7a4d"
	// SocialLinksKey is the key for the social link document.
	SocialLinksKey = "socialLinks"
	// PaymentSettingsKey is the key for the payment settings document.
	PaymentSettingsKey = "paymentSettings"
)

// SocialLinks is the document stored under SocialLinksKey.
type SocialLinks struct {
	Telegram string `json:"telegram,omitempty"`
	WhatsApp string `json:"whatsapp,omitempty"`
	Facebook string `json:"facebook,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// PaymentSettings is the document stored under PaymentSettingsKey. It carries
// the deposit instructions shown to users before a top-up.
type PaymentSettings struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountName   string `json:"account_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Instructions  string `json:"instructions,omitempty"`
}
