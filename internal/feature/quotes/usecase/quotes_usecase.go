package usecase

import (
	"context"
	"strings"

	"stock_etl/internal/feature/quotes/domain/entity"
)

const (
	// DefaultSymbol is queried when the caller does not name one.
	DefaultSymbol = "ASX"
	// LatestLimit is the number of newest rows returned per symbol.
	LatestLimit = 5
)

// QuoteRepository abstracts the read side of the relational store.
type QuoteRepository interface {
	// FindLatest returns up to limit rows for symbol, newest first.
	FindLatest(ctx context.Context, symbol string, limit int) ([]entity.Quote, error)
}

// QuotesUsecase serves the most recent stored quotes.
type QuotesUsecase struct {
	repo QuoteRepository
}

// NewQuotesUsecase creates a QuotesUsecase.
func NewQuotesUsecase(repo QuoteRepository) *QuotesUsecase {
	return &QuotesUsecase{repo: repo}
}

// GetLatest returns the newest LatestLimit quotes for symbol.
// It returns ErrQuoteNotFound when nothing is stored for the symbol.
func (u *QuotesUsecase) GetLatest(ctx context.Context, symbol string) ([]entity.Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = DefaultSymbol
	}

	qs, err := u.repo.FindLatest(ctx, symbol, LatestLimit)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, ErrQuoteNotFound
	}
	return qs, nil
}
