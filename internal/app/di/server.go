package di

import (
	"context"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stock_etl/internal/feature/quotes/adapters"
	"stock_etl/internal/feature/quotes/transport/handler"
	"stock_etl/internal/feature/quotes/usecase"
	symboladapters "stock_etl/internal/feature/symbollist/adapters"
	symbolhandler "stock_etl/internal/feature/symbollist/transport/handler"
	symbolusecase "stock_etl/internal/feature/symbollist/usecase"
	"stock_etl/internal/platform/cache"
	platformhandler "stock_etl/internal/platform/http/handler"
)

// NewQuotesHandler wires the read path: gorm repository, optional Redis cache, usecase.
func NewQuotesHandler(gdb *gorm.DB, rdb *redisv9.Client, ttl time.Duration) *handler.QuotesHandler {
	var repo usecase.QuoteRepository = adapters.NewQuoteRepository(gdb)
	if rdb != nil {
		repo = cache.NewCachingQuoteRepository(rdb, ttl, repo, "quotes")
	}
	return handler.NewQuotesHandler(usecase.NewQuotesUsecase(repo))
}

// NewSymbolHandler wires the stored-symbols listing.
func NewSymbolHandler(gdb *gorm.DB) *symbolhandler.SymbolHandler {
	return symbolhandler.NewSymbolHandler(symbolusecase.NewSymbolUsecase(symboladapters.NewSymbolRepository(gdb)))
}

// NewPingers returns readiness checks for the stores the server uses.
func NewPingers(gdb *gorm.DB, rdb *redisv9.Client) map[string]platformhandler.Pinger {
	pingers := map[string]platformhandler.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if rdb != nil {
		pingers["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return pingers
}
