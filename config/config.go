package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Extraction pipeline configuration
	JPEGQuality            int
	MaxUploadBytes         int64
	SocialExtractorCmd     string
	SocialExtractorTimeout time.Duration
}

// LoadConfig creates a new Config instance from environment variables.
// Secrets may come from *_FILE variants pointing at mounted secret files.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: envOr("SERVER_PORT", "8080"),
		ServerHost: envOr("SERVER_HOST", "0.0.0.0"),

		DBHost:     envOr("DB_HOST", "localhost"),
		DBPort:     envOr("DB_PORT", "5432"),
		DBUser:     envOr("DB_USER", "postgres"),
		DBPassword: secretOr("DB_PASSWORD", ""),
		DBName:     envOr("DB_NAME", "forkful"),
		DBSSLMode:  envOr("DB_SSL_MODE", "disable"),

		RedisHost:     envOr("REDIS_HOST", "localhost"),
		RedisPort:     envOr("REDIS_PORT", "6379"),
		RedisPassword: secretOr("REDIS_PASSWORD", ""),

		JWTSecret: secretOr("JWT_SECRET", ""),

		SocialExtractorCmd: envOr("SOCIAL_EXTRACTOR_CMD", "/usr/local/bin/social-extract"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET or JWT_SECRET_FILE must be set")
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	cfg.JPEGQuality = 90
	if q := os.Getenv("JPEG_QUALITY"); q != "" {
		quality, err := strconv.Atoi(q)
		if err != nil || quality < 1 || quality > 100 {
			return nil, fmt.Errorf("invalid JPEG_QUALITY: %q", q)
		}
		cfg.JPEGQuality = quality
	}

	cfg.MaxUploadBytes = 10 << 20 // 10 MiB
	if m := os.Getenv("MAX_UPLOAD_BYTES"); m != "" {
		max, err := strconv.ParseInt(m, 10, 64)
		if err != nil || max <= 0 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %q", m)
		}
		cfg.MaxUploadBytes = max
	}

	cfg.SocialExtractorTimeout = 30 * time.Second
	if t := os.Getenv("SOCIAL_EXTRACTOR_TIMEOUT"); t != "" {
		d, err := time.ParseDuration(t)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SOCIAL_EXTRACTOR_TIMEOUT: %q", t)
		}
		cfg.SocialExtractorTimeout = d
	}

	return cfg, nil
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// RedisAddr returns the redis host:port address.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// secretOr reads KEY, falling back to the contents of the file named by
// KEY_FILE, then to the given default.
func secretOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if file := os.Getenv(key + "_FILE"); file != "" {
		content, err := os.ReadFile(file)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return fallback
}
