package infra

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PORT", "")
	t.Setenv("STORAGE_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port mismatch: got %q want %q", cfg.Port, "8080")
	}
	if cfg.StorageBaseURL != "http://localhost:8080/static" {
		t.Fatalf("StorageBaseURL mismatch: got %q", cfg.StorageBaseURL)
	}
	if cfg.ProviderTimeout != 10*time.Second {
		t.Fatalf("ProviderTimeout mismatch: got %s", cfg.ProviderTimeout)
	}
	if cfg.GeminiImageModel != "imagen-3.0-generate-002" {
		t.Fatalf("GeminiImageModel mismatch: got %q", cfg.GeminiImageModel)
	}
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadConfigHonorsOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "3")
	t.Setenv("SEEDREAM_MODEL", "seedream-custom")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ProviderTimeout != 3*time.Second {
		t.Fatalf("ProviderTimeout mismatch: got %s", cfg.ProviderTimeout)
	}
	if cfg.SeedreamModel != "seedream-custom" {
		t.Fatalf("SeedreamModel mismatch: got %q", cfg.SeedreamModel)
	}
	if cfg.RateLimitPerMin != 120 {
		t.Fatalf("RateLimitPerMin mismatch: got %d", cfg.RateLimitPerMin)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://staging.example.com" {
		t.Fatalf("AllowedOrigins mismatch: got %v", cfg.AllowedOrigins)
	}
}
