package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string
	JWTSecret   string

	StorageBasePath string
	StorageBaseURL  string
	GeoIPDBPath     string

	PlannerProvider  string
	GeminiAPIKey     string
	GeminiTextModel  string
	GeminiBaseURL    string
	GeminiImageModel string

	SeedreamAPIKey  string
	SeedreamBaseURL string
	SeedreamModel   string

	TripAdvisorAPIKey string
	PexelsAPIKey      string

	AllowedOrigins []string
	FontPath       string

	ProviderTimeout  time.Duration
	CacheMemoTTL     time.Duration
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		StorageBasePath: getEnv("STORAGE_BASE_PATH", "./data/images"),
		StorageBaseURL:  getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),
		GeoIPDBPath:     os.Getenv("GEOIP_DB_PATH"),

		PlannerProvider:  getEnv("PLANNER_PROVIDER", "gemini"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:    getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "imagen-3.0-generate-002"),

		SeedreamAPIKey:  os.Getenv("SEEDREAM_API_KEY"),
		SeedreamBaseURL: getEnv("SEEDREAM_BASE_URL", "https://ark.ap-southeast.bytepluses.com/api/v3"),
		SeedreamModel:   getEnv("SEEDREAM_MODEL", "seedream-3-0-t2i"),

		TripAdvisorAPIKey: os.Getenv("TRIPADVISOR_API_KEY"),
		PexelsAPIKey:      os.Getenv("PEXELS_API_KEY"),

		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		FontPath:       os.Getenv("STORY_FONT_PATH"),

		ProviderTimeout:  time.Second * time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 10)),
		CacheMemoTTL:     time.Second * time.Duration(getEnvInt("CACHE_MEMO_TTL_SECONDS", 60)),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
