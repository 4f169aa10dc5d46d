package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Operator capability configuration
	Operator OperatorConfig

	// Competitor feed ingestion configuration
	Ingest IngestConfig

	// Rate limiting configuration
	RateLimit RateLimitConfig

	// CORS allow-list for the rendering site and admin UI
	CORSOrigins []string

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// OperatorConfig holds the capability token required for mutating
// operations. The surrounding platform owns real authentication; the core
// only checks this capability at each operation's entry point.
type OperatorConfig struct {
	Token string
}

// FeedSource pairs a competitor feed URL with the airport it covers
type FeedSource struct {
	AirportCode string
	URL         string
}

// IngestConfig holds competitor feed ingestion settings
type IngestConfig struct {
	Enabled         bool
	Interval        time.Duration
	FetchTimeout    time.Duration
	MaxResponseSize int64
	Feeds           []FeedSource
}

// RateLimitConfig holds per-client rate limit settings
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "content_engine"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Operator: OperatorConfig{
			Token: getEnv("OPERATOR_TOKEN", ""),
		},
		Ingest: IngestConfig{
			Enabled:         getBoolEnv("INGEST_ENABLED", false),
			Interval:        getDurationEnv("INGEST_INTERVAL", time.Hour),
			FetchTimeout:    getDurationEnv("INGEST_FETCH_TIMEOUT", 30*time.Second),
			MaxResponseSize: getInt64Env("INGEST_MAX_RESPONSE_SIZE", 10*1024*1024), // 10MB
			Feeds:           parseFeedSources(getEnv("INGEST_FEEDS", "")),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getFloatEnv("RATE_LIMIT_RPS", 2.0), // 120 req/min per client
			Burst:             getIntEnv("RATE_LIMIT_BURST", 30),
		},
		CORSOrigins: getSliceEnv("CORS_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:3001",
		}),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Operator.Token == "" {
		return fmt.Errorf("OPERATOR_TOKEN is required")
	}
	if c.Ingest.Enabled && len(c.Ingest.Feeds) == 0 {
		return fmt.Errorf("INGEST_FEEDS is required when INGEST_ENABLED is true")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// parseFeedSources parses INGEST_FEEDS entries of the form
// "JFK|https://example.com/feed.xml,LGA|https://other.com/rss"
func parseFeedSources(raw string) []FeedSource {
	if raw == "" {
		return nil
	}
	var feeds []FeedSource
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "|", 2)
		if len(parts) != 2 {
			continue
		}
		feeds = append(feeds, FeedSource{
			AirportCode: strings.ToUpper(strings.TrimSpace(parts[0])),
			URL:         strings.TrimSpace(parts[1]),
		})
	}
	return feeds
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
