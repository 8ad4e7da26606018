package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "tg-token")
	t.Setenv("FB_APP_ID", "fb-app")
	t.Setenv("FB_APP_SECRET", "fb-secret")
	t.Setenv("FB_ACCESS_TOKEN", "fb-token")
	t.Setenv("IG_USERNAME", "deals_account")
	t.Setenv("IG_PASSWORD", "hunter2")
	t.Setenv("AMAZON_AFFILIATE_TAG", "dealwire-21")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("POST_SCHEDULE", "")
	t.Setenv("RESOLVE_TIMEOUT", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want default 3000", cfg.Port)
	}
	if cfg.PostSchedule != "0 * * * *" {
		t.Errorf("PostSchedule = %q, want hourly default", cfg.PostSchedule)
	}
	if cfg.ResolveTimeout != 15*time.Second {
		t.Errorf("ResolveTimeout = %v, want 15s default", cfg.ResolveTimeout)
	}
	if cfg.AffiliateTag != "dealwire-21" {
		t.Errorf("AffiliateTag = %q, want dealwire-21", cfg.AffiliateTag)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	required := []string{
		"TELEGRAM_TOKEN",
		"FB_APP_ID",
		"FB_APP_SECRET",
		"FB_ACCESS_TOKEN",
		"IG_USERNAME",
		"IG_PASSWORD",
		"AMAZON_AFFILIATE_TAG",
	}
	for _, key := range required {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, "")

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() succeeded with %s unset", key)
			}
			if !strings.Contains(err.Error(), key) {
				t.Errorf("error %v does not name the missing variable %s", err, key)
			}
		})
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("POST_SCHEDULE", "*/30 * * * *")
	t.Setenv("RESOLVE_TIMEOUT", "5s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.PostSchedule != "*/30 * * * *" {
		t.Errorf("PostSchedule = %q, want */30 * * * *", cfg.PostSchedule)
	}
	if cfg.ResolveTimeout != 5*time.Second {
		t.Errorf("ResolveTimeout = %v, want 5s", cfg.ResolveTimeout)
	}
}

func TestLoad_InvalidResolveTimeout(t *testing.T) {
	setRequired(t)
	t.Setenv("RESOLVE_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("Load() accepted an invalid RESOLVE_TIMEOUT")
	}
}
