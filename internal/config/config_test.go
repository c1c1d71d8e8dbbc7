// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

// clearEnv sets every variable Load reads to "", which envOrDefault treats
// the same as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_HOST", "APP_PORT", "APP_ENV", "LOG_LEVEL",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"VALKEY_HOST", "VALKEY_PORT", "VALKEY_PASSWORD",
		"AVAILABLE_LOCALES", "DEFAULT_LOCALE",
		"LISTING_CACHE_TTL", "RATE_LIMIT_PER_MINUTE",
	} {
		t.Setenv(key, "")
	}
}

// TestLoad_Defaults verifies that Load returns sensible development defaults
// when no environment variables are set.
func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	check := func(field, got, want string) {
		t.Helper()
		if got != want {
			t.Errorf("%s = %q, want %q", field, got, want)
		}
	}

	check("Host", cfg.Host, "0.0.0.0")
	check("Port", cfg.Port, "8080")
	check("Env", cfg.Env, "development")
	check("DBUser", cfg.DBUser, "foidesk")
	check("DBPassword", cfg.DBPassword, "changeme")
	check("DBName", cfg.DBName, "foidesk")
	check("ValkeyPort", cfg.ValkeyPort, "6379")
	check("DefaultLocale", cfg.DefaultLocale, "en")
	check("AvailableLocales", strings.Join(cfg.AvailableLocales, " "), "en es fr")

	if cfg.ListingCacheTTL != 5*time.Minute {
		t.Errorf("ListingCacheTTL = %v, want 5m", cfg.ListingCacheTTL)
	}
	if cfg.RateLimitPerMinute != 120 {
		t.Errorf("RateLimitPerMinute = %d, want 120", cfg.RateLimitPerMinute)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() should be true by default")
	}
}

// TestLoad_EnvOverrides verifies that environment variables override defaults.
func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db.example.com")
	t.Setenv("AVAILABLE_LOCALES", "es en_GB")
	t.Setenv("DEFAULT_LOCALE", "en_GB")
	t.Setenv("LISTING_CACHE_TTL", "90s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Addr() != "0.0.0.0:9090" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
	if cfg.DBHost != "db.example.com" {
		t.Errorf("DBHost = %q", cfg.DBHost)
	}
	if cfg.DefaultLocale != "en_GB" || len(cfg.AvailableLocales) != 2 {
		t.Errorf("locales = %v default %q", cfg.AvailableLocales, cfg.DefaultLocale)
	}
	if cfg.ListingCacheTTL != 90*time.Second {
		t.Errorf("ListingCacheTTL = %v, want 90s", cfg.ListingCacheTTL)
	}
	if cfg.RateLimitPerMinute != 10 {
		t.Errorf("RateLimitPerMinute = %d, want 10", cfg.RateLimitPerMinute)
	}

	p, err := cfg.Locales()
	if err != nil {
		t.Fatalf("Locales(): %v", err)
	}
	if p.Default() != "en_GB" {
		t.Errorf("provider default = %q", p.Default())
	}
}

// TestLoad_ProductionRequiresPassword verifies that production mode rejects
// the default "changeme" password and accepts a real one.
func TestLoad_ProductionRequiresPassword(t *testing.T) {
	t.Run("rejects default password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() should return an error when production uses default password")
		}
		if !strings.Contains(err.Error(), "POSTGRES_PASSWORD") {
			t.Errorf("error should mention POSTGRES_PASSWORD, got: %v", err)
		}
	})

	t.Run("accepts real password", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("APP_ENV", "production")
		t.Setenv("POSTGRES_PASSWORD", "s3cur3-pr0d-p@ssw0rd")

		if _, err := Load(); err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
	})
}

func TestLoad_RejectsDefaultLocaleOutsideAvailable(t *testing.T) {
	clearEnv(t)
	t.Setenv("AVAILABLE_LOCALES", "es fr")
	t.Setenv("DEFAULT_LOCALE", "en")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should reject a default locale that is not available")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.in}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
