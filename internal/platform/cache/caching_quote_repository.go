// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/usecase"
)

const (
	defaultTTL       = 5 * time.Minute
	defaultNamespace = "quotes"
	scanCount        = 200
)

// CachingQuoteRepository decorates a QuoteRepository with Redis caching.
// A nil client turns it into a pass-through.
type CachingQuoteRepository struct {
	inner     usecase.QuoteRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.QuoteRepository = (*CachingQuoteRepository)(nil)

// NewCachingQuoteRepository decorates a QuoteRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "quotes".
func NewCachingQuoteRepository(rdb *redis.Client, ttl time.Duration, inner usecase.QuoteRepository, namespace string) *CachingQuoteRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &CachingQuoteRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FindLatest checks the cache first and falls back to the inner repository.
// Empty results are not cached so a symbol becomes visible as soon as it is loaded.
func (c *CachingQuoteRepository) FindLatest(ctx context.Context, symbol string, limit int) ([]entity.Quote, error) {
	if c.rdb == nil {
		return c.inner.FindLatest(ctx, symbol, limit)
	}

	key := cacheKey(c.namespace, symbol, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.Quote
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// corrupted entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindLatest(ctx, symbol, limit)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
	return out, nil
}

// InvalidatingQuoteWriter decorates a QuoteWriter and drops cached reads for
// every symbol it has just written.
type InvalidatingQuoteWriter struct {
	inner     usecase.QuoteWriter
	rdb       *redis.Client
	namespace string
}

var _ usecase.QuoteWriter = (*InvalidatingQuoteWriter)(nil)

// NewInvalidatingQuoteWriter wraps inner. If namespace is empty, it uses "quotes".
func NewInvalidatingQuoteWriter(rdb *redis.Client, inner usecase.QuoteWriter, namespace string) *InvalidatingQuoteWriter {
	if namespace == "" {
		namespace = defaultNamespace
	}
	return &InvalidatingQuoteWriter{inner: inner, rdb: rdb, namespace: namespace}
}

// WriteRows writes through to the inner writer, then invalidates the cache.
// Invalidation is best effort and never fails the write.
func (w *InvalidatingQuoteWriter) WriteRows(ctx context.Context, quotes []entity.Quote) error {
	if err := w.inner.WriteRows(ctx, quotes); err != nil {
		return err
	}
	if w.rdb == nil || len(quotes) == 0 {
		return nil
	}

	seen := map[string]struct{}{}
	for _, q := range quotes {
		if _, ok := seen[q.Symbol]; ok {
			continue
		}
		seen[q.Symbol] = struct{}{}
		if err := deleteByPattern(ctx, w.rdb, cacheKeyPrefix(w.namespace, q.Symbol)+"*"); err != nil {
			slog.Warn("failed to invalidate quote cache", "symbol", q.Symbol, "error", err)
		}
	}
	return nil
}

func cacheKey(namespace, symbol string, limit int) string {
	return fmt.Sprintf("%s%d", cacheKeyPrefix(namespace, symbol), limit)
}

func cacheKeyPrefix(namespace, symbol string) string {
	return fmt.Sprintf("%s:%s:", namespace, safe(symbol))
}

// deleteByPattern deletes all keys matching pattern using SCAN.
func deleteByPattern(ctx context.Context, rdb *redis.Client, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := rdb.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			return nil
		}
	}
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
