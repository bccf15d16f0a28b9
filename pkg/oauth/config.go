package oauth

// GoogleConfig holds Google OAuth configuration.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_CLIENT_SECRET,required"`
	RedirectURL  string   `env:"GOOGLE_REDIRECT_URL" envDefault:""`
	Scopes       []string `env:"GOOGLE_SCOPES" envSeparator:","`
}

// MicrosoftConfig holds Microsoft OAuth configuration.
type MicrosoftConfig struct {
	ClientID     string   `env:"MS_CLIENT_ID,required"`
	ClientSecret string   `env:"MS_CLIENT_SECRET,required"`
	Tenant       string   `env:"MS_TENANT_ID" envDefault:"common"`
	RedirectURL  string   `env:"MS_REDIRECT_URL" envDefault:""`
	Scopes       []string `env:"MS_SCOPES" envSeparator:","`
}
