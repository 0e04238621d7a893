package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort   string
	Environment  string
	DatabaseType string
	DatabaseURL  string
	DatabasePath string

	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	CORSAllowedOrigins []string

	RedisURL            string
	LeaderboardCacheTTL time.Duration

	AnthropicAPIKey string
	AnthropicModel  string
	MockGenerator   bool
}

// Load reads configuration from environment variables with sensible defaults.
// Outside production a .env file in the working directory is loaded first.
func Load() *Config {
	env := getEnv("APP_ENV", "development")
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("[config] no .env file loaded: %v", err)
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("PORT", "8080"),
		Environment:  env,
		DatabaseType: getEnv("DATABASE_TYPE", "sqlite"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabasePath: getEnv("DATABASE_PATH", "./quiz.db"),

		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		AdminTokenSecret:  os.Getenv("ADMIN_TOKEN_SECRET"),
		AdminTokenTTL:     getDuration("ADMIN_TOKEN_TTL", 12*time.Hour),

		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),

		RedisURL:            os.Getenv("REDIS_URL"),
		LeaderboardCacheTTL: getDuration("LEADERBOARD_CACHE_TTL", 30*time.Second),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		MockGenerator:   os.Getenv("MOCK_GENERATOR") == "true",
	}

	// The development password only exists so a fresh checkout can log in.
	if cfg.AdminPassword == "" && cfg.AdminPasswordHash == "" && !cfg.IsProduction() {
		log.Println("[config] ADMIN_PASSWORD not set, using development default")
		cfg.AdminPassword = "admin123"
	}

	return cfg
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
