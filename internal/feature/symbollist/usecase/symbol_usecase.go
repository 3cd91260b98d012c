// Package usecase implements the business logic for symbol-related operations.
package usecase

import (
	"context"

	"stock_etl/internal/feature/symbollist/domain/entity"
)

// SymbolRepository lists the symbols that have stored quotes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListStored(ctx context.Context) ([]entity.Symbol, error)
}

// SymbolUsecase provides business logic for symbol operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListSymbols returns every stored symbol ordered by code.
func (u *SymbolUsecase) ListSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListStored(ctx)
}
