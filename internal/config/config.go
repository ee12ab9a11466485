package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port           string
	Environment    string
	LogLevel       string
	RedisURL       string
	CacheTTL       time.Duration
	NovesURL       string
	NovesAPIKey    string
	NovesMaxTries  uint
	HTTPTimeout    time.Duration
	BaseURL        string
	AssetsURL      string
	BackgroundPath string
	OtelEndpoint   string
}

func Load() *Config {
	return &Config{
		Port:           getEnv("PORT", "3000"),
		Environment:    getEnv("ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		RedisURL:       getEnv("REDIS_URL", ""),
		CacheTTL:       getDuration("CACHE_TTL", time.Hour),
		NovesURL:       getEnv("NOVES_URL", "https://translate.noves.fi"),
		NovesAPIKey:    getEnv("NOVES_API_KEY", ""),
		NovesMaxTries:  uint(getInt("NOVES_MAX_TRIES", 3)),
		HTTPTimeout:    getDuration("HTTP_TIMEOUT", 10*time.Second),
		BaseURL:        getEnv("BASE_URL", getEnv("NEXT_PUBLIC_BASE_URL", "http://localhost:3000")),
		AssetsURL:      getEnv("ASSETS_URL", "https://raw.githubusercontent.com/trustwallet/assets/master"),
		BackgroundPath: getEnv("BACKGROUND_PATH", "frontend/public/bg.png"),
		OtelEndpoint:   getEnv("OTEL_ENDPOINT", ""),
	}
}

// IsDevelopment reports whether responses should skip long-lived caching.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
