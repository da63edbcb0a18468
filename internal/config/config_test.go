package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/promptforge")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("OPENROUTER_API_KEY", "or-test-key")
	t.Setenv("GEMINI_API_KEY", "gm-test-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("expected AppEnv development, got %s", cfg.AppEnv)
	}
	if cfg.AppPort != 8080 {
		t.Errorf("expected AppPort 8080, got %d", cfg.AppPort)
	}
	if cfg.BasicQuotaDefault != 25 {
		t.Errorf("expected BasicQuotaDefault 25, got %d", cfg.BasicQuotaDefault)
	}
	if cfg.ProQuotaDefault != 5 {
		t.Errorf("expected ProQuotaDefault 5, got %d", cfg.ProQuotaDefault)
	}
	if cfg.UpstreamTimeout != 60*time.Second {
		t.Errorf("expected UpstreamTimeout 60s, got %s", cfg.UpstreamTimeout)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("expected SessionTTL 24h, got %s", cfg.SessionTTL)
	}
	if cfg.GeminiModel != "gemini-2.0-flash-exp" {
		t.Errorf("unexpected GeminiModel: %s", cfg.GeminiModel)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when SESSION_SECRET is missing")
	}
}

func TestLoad_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("BASIC_QUOTA_DEFAULT", "100")
	t.Setenv("UPSTREAM_TIMEOUT", "15s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction to be true")
	}
	if cfg.AppPort != 9090 {
		t.Errorf("expected AppPort 9090, got %d", cfg.AppPort)
	}
	if cfg.BasicQuotaDefault != 100 {
		t.Errorf("expected BasicQuotaDefault 100, got %d", cfg.BasicQuotaDefault)
	}
	if cfg.UpstreamTimeout != 15*time.Second {
		t.Errorf("expected UpstreamTimeout 15s, got %s", cfg.UpstreamTimeout)
	}
}

func TestGetCORSAllowedOrigins(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  int
	}{
		{"empty", "", 0},
		{"single", "https://example.com", 1},
		{"multiple with spaces", "https://a.com, https://b.com ,https://c.com", 3},
		{"trailing comma", "https://a.com,", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{CORSAllowedOrigins: tt.value}
			got := cfg.GetCORSAllowedOrigins()
			if len(got) != tt.want {
				t.Errorf("expected %d origins, got %d (%v)", tt.want, len(got), got)
			}
		})
	}
}
