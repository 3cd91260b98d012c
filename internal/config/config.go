// Package config loads process settings from the environment once at start-up.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/usecase"
	"stock_etl/internal/platform/db"
	"stock_etl/internal/platform/redis"
)

const (
	DefaultProvider     = "alphavantage"
	DefaultBaseURL      = "https://www.alphavantage.co"
	DefaultOutputDir    = "data"
	DefaultRegion       = "eu-west-2"
	DefaultHTTPAddr     = ":8080"
	DefaultPostgresPort = 5432
	DefaultSSLMode      = "prefer"
	DefaultTimeout      = 10 * time.Second
	DefaultCacheTTL     = 5 * time.Minute
)

// ProviderConfig selects and parameterises the market data provider.
type ProviderConfig struct {
	Name              string
	APIKey            string
	BaseURL           string
	OutputSize        entity.OutputSize
	Timeout           time.Duration
	RequestsPerMinute int
}

// ArchiveConfig points at the object store. An empty Bucket is reported by
// the archiver when it is used, not here.
type ArchiveConfig struct {
	Region string
	Bucket string
}

// Config is the immutable process configuration.
type Config struct {
	Provider  ProviderConfig
	OutputDir string
	Symbols   []string
	Database  db.Config
	Archive   ArchiveConfig
	HTTPAddr  string
	Redis     redis.Config
	CacheTTL  time.Duration
}

// LoadEnv reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadEnv() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("%w: read .env: %v", usecase.ErrConfiguration, err)
	}
	return Load(os.Getenv)
}

// Load builds a Config from getenv, applying defaults. It only fails on
// values that are present but malformed.
func Load(getenv func(string) string) (Config, error) {
	var errs []error
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	duration := func(key string, def time.Duration) time.Duration {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative duration, got %q", key, raw))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		raw := get(key, "")
		if raw == "" {
			return def
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, fmt.Errorf("%s must be a non-negative integer, got %q", key, raw))
			return def
		}
		return n
	}

	size := entity.OutputSize(strings.ToLower(get("PROVIDER_OUTPUT_SIZE", string(entity.OutputSizeCompact))))
	if !size.Valid() {
		errs = append(errs, fmt.Errorf("PROVIDER_OUTPUT_SIZE must be %q or %q, got %q", entity.OutputSizeCompact, entity.OutputSizeFull, size))
		size = entity.OutputSizeCompact
	}

	cfg := Config{
		Provider: ProviderConfig{
			Name:              strings.ToLower(get("PROVIDER", DefaultProvider)),
			APIKey:            get("ALPHAVANTAGE_API_KEY", ""),
			BaseURL:           get("ALPHAVANTAGE_BASE_URL", DefaultBaseURL),
			OutputSize:        size,
			Timeout:           duration("PROVIDER_TIMEOUT", DefaultTimeout),
			RequestsPerMinute: integer("PROVIDER_REQUESTS_PER_MINUTE", 0),
		},
		OutputDir: get("OUTPUT_DIR", DefaultOutputDir),
		Symbols:   ParseSymbols(getenv("SYMBOL")),
		Database: db.Config{
			User:     get("POSTGRES_USER", ""),
			Password: getenv("POSTGRES_PASSWORD"),
			Name:     get("POSTGRES_DB", ""),
			Host:     get("POSTGRES_HOST", ""),
			Port:     integer("POSTGRES_PORT", DefaultPostgresPort),
			SSLMode:  get("POSTGRES_SSLMODE", DefaultSSLMode),
		},
		Archive: ArchiveConfig{
			Region: get("AWS_REGION", DefaultRegion),
			Bucket: get("S3_BUCKET", ""),
		},
		HTTPAddr: get("HTTP_ADDR", DefaultHTTPAddr),
		Redis: redis.Config{
			Host:     get("REDIS_HOST", ""),
			Port:     get("REDIS_PORT", "6379"),
			Password: getenv("REDIS_PASSWORD"),
		},
		CacheTTL: duration("QUOTE_CACHE_TTL", DefaultCacheTTL),
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("%w: %w", usecase.ErrConfiguration, err)
	}
	return cfg, nil
}

// ParseSymbols splits a comma-separated list, trimming and upper-casing each
// entry and dropping empty ones. Order and duplicates are preserved.
func ParseSymbols(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ValidateDatabase checks the settings every relational caller needs.
func (c Config) ValidateDatabase() error {
	var missing []string
	if c.Database.Host == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.Database.Name == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if c.Database.User == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", usecase.ErrConfiguration, strings.Join(missing, ", "))
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("%w: POSTGRES_PORT must be between 1 and 65535, got %d", usecase.ErrConfiguration, c.Database.Port)
	}
	return nil
}

// ValidateRun checks what a live fetch run needs.
func (c Config) ValidateRun() error {
	if len(c.Symbols) == 0 {
		return fmt.Errorf("%w: SYMBOL must list at least one symbol", usecase.ErrConfiguration)
	}
	return c.ValidateReload()
}

// ValidateReload checks what reloading columnar files needs.
func (c Config) ValidateReload() error {
	if c.OutputDir == "" {
		return fmt.Errorf("%w: OUTPUT_DIR is required", usecase.ErrConfiguration)
	}
	return c.ValidateDatabase()
}
