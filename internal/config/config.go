package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth" validate:"required"`
	Generation GenerationConfig `mapstructure:"generation" validate:"required"`
	Session    SessionConfig    `mapstructure:"session" validate:"required"`
	Payment    PaymentConfig    `mapstructure:"payment"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL selects the in-memory entitlement store, used for local
// development and tests.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// PrivilegedEmail, when set, grants the paid tier to the matching
	// account without a payment flow. Used for demo and support accounts.
	PrivilegedEmail string `mapstructure:"privileged_email" validate:"omitempty,email"`
}

// GenerationConfig contains the settings for the remote generation providers
// and the media locator. Provider selects which generator the pipeline uses;
// "none" disables remote generation entirely so every session falls back to
// the curated knowledge base.
type GenerationConfig struct {
	Provider string `mapstructure:"provider" validate:"required,oneof=openrouter gemini none"`

	OpenRouterAPIKey  string `mapstructure:"openrouter_api_key"`
	OpenRouterModel   string `mapstructure:"openrouter_model"`
	OpenRouterBaseURL string `mapstructure:"openrouter_base_url" validate:"omitempty,url"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	YouTubeAPIKey string `mapstructure:"youtube_api_key"`

	// SiteURL and SiteName populate OpenRouter's attribution headers.
	SiteURL  string `mapstructure:"site_url" validate:"omitempty,url"`
	SiteName string `mapstructure:"site_name"`

	MaxRetries        int `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=1,lte=30"`
}

// PaymentConfig contains the settings for the payment provisioning client.
// An empty secret key disables the payment endpoint; upgrade then relies on
// the privileged-email mapping only.
type PaymentConfig struct {
	StripeSecretKey string `mapstructure:"stripe_secret_key"`
	BaseURL         string `mapstructure:"base_url" validate:"omitempty,url"`

	// AmountCents and Currency are fixed server-side; the client never
	// chooses what it pays.
	AmountCents int    `mapstructure:"amount_cents" validate:"gt=0"`
	Currency    string `mapstructure:"currency" validate:"required,len=3"`
}

// SessionConfig contains the timing knobs of the session state machine.
// All values are in milliseconds. Tests shrink them to keep runs fast; the
// defaults reproduce the intended interactive pacing.
type SessionConfig struct {
	ProgressTickMS int `mapstructure:"progress_tick_ms" validate:"gt=0"`
	LogTickMS      int `mapstructure:"log_tick_ms" validate:"gt=0"`
	SettleDelayMS  int `mapstructure:"settle_delay_ms" validate:"gte=0"`
	DisplayDelayMS int `mapstructure:"display_delay_ms" validate:"gte=0"`
	AdvanceDelayMS int `mapstructure:"advance_delay_ms" validate:"gte=0"`
}
