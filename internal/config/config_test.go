package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/usecase"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "alphavantage", cfg.Provider.Name)
	assert.Equal(t, DefaultBaseURL, cfg.Provider.BaseURL)
	assert.Equal(t, entity.OutputSizeCompact, cfg.Provider.OutputSize)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Zero(t, cfg.Provider.RequestsPerMinute)
	assert.Equal(t, "data", cfg.OutputDir)
	assert.Empty(t, cfg.Symbols)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "prefer", cfg.Database.SSLMode)
	assert.Equal(t, "eu-west-2", cfg.Archive.Region)
	assert.Empty(t, cfg.Archive.Bucket)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
}

func TestLoad_AllKeys(t *testing.T) {
	t.Parallel()

	cfg, err := Load(envFrom(map[string]string{
		"PROVIDER":                     "AlphaVantage",
		"ALPHAVANTAGE_API_KEY":         "demo",
		"ALPHAVANTAGE_BASE_URL":        "http://localhost:9999",
		"PROVIDER_OUTPUT_SIZE":         "FULL",
		"PROVIDER_TIMEOUT":             "3s",
		"PROVIDER_REQUESTS_PER_MINUTE": "5",
		"OUTPUT_DIR":                   "/tmp/out",
		"SYMBOL":                       " asx, bhp ,,CBA ",
		"POSTGRES_DB":                  "quotes",
		"POSTGRES_USER":                "etl",
		"POSTGRES_PASSWORD":            " spaced ",
		"POSTGRES_HOST":                "db",
		"POSTGRES_PORT":                "6543",
		"POSTGRES_SSLMODE":             "disable",
		"AWS_REGION":                   "ap-southeast-2",
		"S3_BUCKET":                    "quotes-archive",
		"HTTP_ADDR":                    ":9090",
		"REDIS_HOST":                   "cache",
		"REDIS_PORT":                   "6380",
		"REDIS_PASSWORD":               "pw",
		"QUOTE_CACHE_TTL":              "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, ProviderConfig{
		Name:              "alphavantage",
		APIKey:            "demo",
		BaseURL:           "http://localhost:9999",
		OutputSize:        entity.OutputSizeFull,
		Timeout:           3 * time.Second,
		RequestsPerMinute: 5,
	}, cfg.Provider)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.Equal(t, []string{"ASX", "BHP", "CBA"}, cfg.Symbols)
	assert.Equal(t, "quotes", cfg.Database.Name)
	assert.Equal(t, " spaced ", cfg.Database.Password, "passwords are taken verbatim")
	assert.Equal(t, 6543, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, ArchiveConfig{Region: "ap-southeast-2", Bucket: "quotes-archive"}, cfg.Archive)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestLoad_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{"bad output size", map[string]string{"PROVIDER_OUTPUT_SIZE": "huge"}, "PROVIDER_OUTPUT_SIZE"},
		{"bad timeout", map[string]string{"PROVIDER_TIMEOUT": "soon"}, "PROVIDER_TIMEOUT"},
		{"negative rate", map[string]string{"PROVIDER_REQUESTS_PER_MINUTE": "-1"}, "PROVIDER_REQUESTS_PER_MINUTE"},
		{"bad port", map[string]string{"POSTGRES_PORT": "five"}, "POSTGRES_PORT"},
		{"bad ttl", map[string]string{"QUOTE_CACHE_TTL": "-5m"}, "QUOTE_CACHE_TTL"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Load(envFrom(tt.env))

			require.Error(t, err)
			assert.ErrorIs(t, err, usecase.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoad_ReportsEveryMalformedKey(t *testing.T) {
	t.Parallel()

	_, err := Load(envFrom(map[string]string{
		"PROVIDER_TIMEOUT": "soon",
		"POSTGRES_PORT":    "five",
	}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_TIMEOUT")
	assert.Contains(t, err.Error(), "POSTGRES_PORT")
}

func TestParseSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"ASX", []string{"ASX"}},
		{"asx,bhp", []string{"ASX", "BHP"}},
		{" mqg.ax , , cba ", []string{"MQG.AX", "CBA"}},
		{"ASX,ASX", []string{"ASX", "ASX"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseSymbols(tt.raw))
		})
	}
}

func validConfig() Config {
	cfg, _ := Load(envFrom(map[string]string{
		"SYMBOL":        "ASX",
		"POSTGRES_DB":   "quotes",
		"POSTGRES_USER": "etl",
		"POSTGRES_HOST": "localhost",
	}))
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(c *Config)
		validate func(c Config) error
		wantMsg  string
	}{
		{"run ok", func(*Config) {}, Config.ValidateRun, ""},
		{"run without symbols", func(c *Config) { c.Symbols = nil }, Config.ValidateRun, "SYMBOL"},
		{"reload without symbols", func(c *Config) { c.Symbols = nil }, Config.ValidateReload, ""},
		{"reload without output dir", func(c *Config) { c.OutputDir = "" }, Config.ValidateReload, "OUTPUT_DIR"},
		{"missing db host and user", func(c *Config) { c.Database.Host, c.Database.User = "", "" }, Config.ValidateDatabase, "POSTGRES_HOST, POSTGRES_USER"},
		{"port out of range", func(c *Config) { c.Database.Port = 70000 }, Config.ValidateDatabase, "POSTGRES_PORT"},
		{"run checks database", func(c *Config) { c.Database.Name = "" }, Config.ValidateRun, "POSTGRES_DB"},
		{"bucket is not checked eagerly", func(c *Config) { c.Archive.Bucket = "" }, Config.ValidateRun, ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)

			err := tt.validate(cfg)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, usecase.ErrConfiguration)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadEnv_ReadsDotEnv(t *testing.T) {
	// Not parallel: changes the working directory and environment.
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SYMBOL=bhp,cba\nOUTPUT_DIR=from-file\n"), 0o600))
	chdir(t, dir)
	t.Setenv("OUTPUT_DIR", "from-env")
	t.Setenv("SYMBOL", "")
	// godotenv.Load only fills unset keys, so clear the one the file provides.
	require.NoError(t, os.Unsetenv("SYMBOL"))

	cfg, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, []string{"BHP", "CBA"}, cfg.Symbols)
	assert.Equal(t, "from-env", cfg.OutputDir, "process environment wins over .env")
}

func TestLoadEnv_MissingDotEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PROVIDER_TIMEOUT", "")

	_, err := LoadEnv()
	assert.NoError(t, err)
}

// chdir changes the working directory for the duration of the test.
// Equivalent to testing.T.Chdir, which requires Go 1.24.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
