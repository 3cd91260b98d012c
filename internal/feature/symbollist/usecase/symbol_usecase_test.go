package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"stock_etl/internal/feature/symbollist/domain/entity"
	"stock_etl/internal/feature/symbollist/usecase"
)

type mockSymbolRepository struct {
	ListStoredFunc func(ctx context.Context) ([]entity.Symbol, error)
}

func (m *mockSymbolRepository) ListStored(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListStoredFunc != nil {
		return m.ListStoredFunc(ctx)
	}
	return nil, nil
}

func TestSymbolUsecase_ListSymbols(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		mockListStored  func(ctx context.Context) ([]entity.Symbol, error)
		expectedSymbols []entity.Symbol
		wantErr         bool
	}{
		{
			name: "success: returns stored symbols",
			mockListStored: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{{Code: "ASX", Records: 100}, {Code: "BHP", Records: 3}}, nil
			},
			expectedSymbols: []entity.Symbol{{Code: "ASX", Records: 100}, {Code: "BHP", Records: 3}},
		},
		{
			name: "success: empty table",
			mockListStored: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{}, nil
			},
			expectedSymbols: []entity.Symbol{},
		},
		{
			name: "failure: repository returns error",
			mockListStored: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			uc := usecase.NewSymbolUsecase(&mockSymbolRepository{ListStoredFunc: tt.mockListStored})

			symbols, err := uc.ListSymbols(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, symbols)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedSymbols, symbols)
		})
	}
}
