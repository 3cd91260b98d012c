// Package adapters provides the repository implementation of the symbollist feature.
package adapters

import (
	"context"

	"gorm.io/gorm"

	"stock_etl/internal/feature/symbollist/domain/entity"
	"stock_etl/internal/feature/symbollist/usecase"
)

// symbolGorm reads symbols from the append-only quotes table.
type symbolGorm struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolGorm)(nil)

// NewSymbolRepository creates a gorm-backed SymbolRepository.
func NewSymbolRepository(db *gorm.DB) *symbolGorm {
	return &symbolGorm{db: db}
}

type symbolRow struct {
	Code    string
	Records int64
}

// ListStored groups the quotes table by symbol. Duplicate rows are counted.
func (r *symbolGorm) ListStored(ctx context.Context) ([]entity.Symbol, error) {
	var rows []symbolRow
	if err := r.db.WithContext(ctx).
		Table("quotes").
		Select("symbol AS code, COUNT(*) AS records").
		Group("symbol").
		Order("symbol ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Symbol, 0, len(rows))
	for _, s := range rows {
		out = append(out, entity.Symbol{Code: s.Code, Records: s.Records})
	}
	return out, nil
}
