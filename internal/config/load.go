package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and optionally a
// config.yaml in the working directory. Environment variables use the
// SYNAPSE_ prefix with underscores for nesting (SYNAPSE_SERVER_PORT) and
// take precedence over file values. Returns a populated Config or an error
// if loading or validation fails.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("generation.provider", "openrouter")
	v.SetDefault("generation.openrouter_model", "google/gemini-2.0-flash-001")
	v.SetDefault("generation.gemini_model", "gemini-2.0-flash")
	v.SetDefault("generation.max_retries", 2)
	v.SetDefault("generation.retry_delay_seconds", 1)
	v.SetDefault("payment.amount_cents", 999)
	v.SetDefault("payment.currency", "eur")
	v.SetDefault("session.progress_tick_ms", 200)
	v.SetDefault("session.log_tick_ms", 600)
	v.SetDefault("session.settle_delay_ms", 500)
	v.SetDefault("session.display_delay_ms", 500)
	v.SetDefault("session.advance_delay_ms", 1500)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars carry the settings.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("SYNAPSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not surface env-only keys through Unmarshal, so
	// every known key is bound explicitly.
	for _, key := range []string{
		"server.port", "server.log_level",
		"database.url",
		"auth.jwt_secret", "auth.privileged_email",
		"generation.provider",
		"generation.openrouter_api_key", "generation.openrouter_model", "generation.openrouter_base_url",
		"generation.gemini_api_key", "generation.gemini_model",
		"generation.youtube_api_key",
		"generation.site_url", "generation.site_name",
		"generation.max_retries", "generation.retry_delay_seconds",
		"payment.stripe_secret_key", "payment.base_url",
		"payment.amount_cents", "payment.currency",
		"session.progress_tick_ms", "session.log_tick_ms",
		"session.settle_delay_ms", "session.display_delay_ms", "session.advance_delay_ms",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env var for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
