// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_etl/internal/config"
	"stock_etl/internal/feature/quotes/adapters"
	"stock_etl/internal/feature/quotes/adapters/parquetstore"
	"stock_etl/internal/feature/quotes/adapters/provider"
	"stock_etl/internal/feature/quotes/adapters/s3archive"
	"stock_etl/internal/feature/quotes/usecase"
	"stock_etl/internal/platform/cache"
	"stock_etl/internal/platform/db"
	infrahttp "stock_etl/internal/platform/http"
	"stock_etl/internal/shared/ratelimiter"
)

// NewMarketProvider resolves the configured provider with a timeout-bound HTTP client.
func NewMarketProvider(cfg config.ProviderConfig) (usecase.MarketProvider, error) {
	return provider.NewRegistry().Resolve(cfg.Name, provider.Settings{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Client:  infrahttp.NewHTTPClient(cfg.Timeout),
	})
}

// NewArchiver builds the S3 archiver. A missing bucket is not an error here.
func NewArchiver(ctx context.Context, cfg config.ArchiveConfig) (usecase.Archiver, error) {
	return s3archive.NewFromRegion(ctx, cfg.Region, cfg.Bucket)
}

// NewQuoteWriter returns the Postgres sink. With a Redis client it also drops
// cached reads for every symbol it writes.
func NewQuoteWriter(cfg db.Config, rdb *redisv9.Client) usecase.QuoteWriter {
	w := adapters.NewQuoteWriter(adapters.PgxConnector(db.BuildDSN(cfg)))
	if rdb == nil {
		return w
	}
	return cache.NewInvalidatingQuoteWriter(rdb, w, "quotes")
}

// NewPipeline assembles the fetch/normalize/store pipeline.
func NewPipeline(ctx context.Context, cfg config.Config, rdb *redisv9.Client) (*usecase.PipelineUsecase, error) {
	market, err := NewMarketProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	archiver, err := NewArchiver(ctx, cfg.Archive)
	if err != nil {
		return nil, err
	}
	if cfg.Archive.Bucket == "" {
		slog.Warn("S3_BUCKET is not set; archiving will fail for every symbol")
	}

	return usecase.NewPipelineUsecase(
		market,
		parquetstore.NewStore(cfg.OutputDir),
		archiver,
		NewQuoteWriter(cfg.Database, rdb),
		ratelimiter.PerMinute(cfg.Provider.RequestsPerMinute),
		cfg.Provider.OutputSize,
	), nil
}

// NewReload assembles the columnar-to-relational reload and returns the store
// so callers can list its files.
func NewReload(cfg config.Config, rdb *redisv9.Client) (*usecase.ReloadUsecase, *parquetstore.Store) {
	store := parquetstore.NewStore(cfg.OutputDir)
	return usecase.NewReloadUsecase(store, NewQuoteWriter(cfg.Database, rdb)), store
}
