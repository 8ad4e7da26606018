package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Config carries everything the bot needs at startup. Credentials and the
// affiliate tag are required; missing values fail Load rather than surfacing
// later as per-call errors.
type Config struct {
	TelegramToken string

	FBAppID       string
	FBAppSecret   string
	FBAccessToken string

	IGUsername string
	IGPassword string

	AffiliateTag string

	Port         string
	PostSchedule string

	GeminiAPIKey string
	GeminiModel  string

	ResolveTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	required := []struct {
		key  string
		dest *string
	}{
		{"TELEGRAM_TOKEN", &cfg.TelegramToken},
		{"FB_APP_ID", &cfg.FBAppID},
		{"FB_APP_SECRET", &cfg.FBAppSecret},
		{"FB_ACCESS_TOKEN", &cfg.FBAccessToken},
		{"IG_USERNAME", &cfg.IGUsername},
		{"IG_PASSWORD", &cfg.IGPassword},
		{"AMAZON_AFFILIATE_TAG", &cfg.AffiliateTag},
	}
	for _, r := range required {
		v := os.Getenv(r.key)
		if v == "" {
			return nil, fmt.Errorf("%s environment variable is required but not set", r.key)
		}
		*r.dest = v
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "3000"
		slog.Info("Defaulting to port", "port", cfg.Port)
	}

	cfg.PostSchedule = os.Getenv("POST_SCHEDULE")
	if cfg.PostSchedule == "" {
		cfg.PostSchedule = "0 * * * *"
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	if cfg.GeminiModel == "" {
		cfg.GeminiModel = "gemini-2.0-flash"
	}

	resolveTimeoutStr := os.Getenv("RESOLVE_TIMEOUT")
	if resolveTimeoutStr == "" {
		resolveTimeoutStr = "15s"
	}
	resolveTimeout, err := time.ParseDuration(resolveTimeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RESOLVE_TIMEOUT %q: %w", resolveTimeoutStr, err)
	}
	cfg.ResolveTimeout = resolveTimeout

	return cfg, nil
}
