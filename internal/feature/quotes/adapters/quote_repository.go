package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/usecase"
)

type quoteGorm struct {
	db *gorm.DB
}

var _ usecase.QuoteRepository = (*quoteGorm)(nil)

func NewQuoteRepository(db *gorm.DB) *quoteGorm {
	return &quoteGorm{db: db}
}

// QuoteModel maps the quotes table written by the ETL. The table has no key.
type QuoteModel struct {
	Symbol    string     `gorm:"column:symbol;type:text"`
	Open      *float64   `gorm:"column:open;type:numeric"`
	High      *float64   `gorm:"column:high;type:numeric"`
	Low       *float64   `gorm:"column:low;type:numeric"`
	Close     *float64   `gorm:"column:close;type:numeric"`
	Volume    *int64     `gorm:"column:volume;type:bigint"`
	Timestamp *time.Time `gorm:"column:timestamp;type:date"`
}

func (QuoteModel) TableName() string {
	return "quotes"
}

func toEntity(m QuoteModel) entity.Quote {
	q := entity.Quote{
		Symbol: m.Symbol,
		Open:   m.Open,
		High:   m.High,
		Low:    m.Low,
		Close:  m.Close,
		Volume: m.Volume,
	}
	if m.Timestamp != nil {
		t := m.Timestamp.UTC()
		q.Timestamp = &t
	}
	return q
}

// latestQuery selects symbol's rows newest first. Rows without a date sort
// after dated ones; Postgres would otherwise put NULLs first under DESC.
func latestQuery(db *gorm.DB, symbol string, limit int) *gorm.DB {
	q := db.Where("symbol = ?", symbol).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:  "? DESC NULLS LAST",
			Vars: []any{clause.Column{Name: "timestamp"}},
		}})
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

func (r *quoteGorm) FindLatest(ctx context.Context, symbol string, limit int) ([]entity.Quote, error) {
	var rows []QuoteModel
	if err := latestQuery(r.db.WithContext(ctx), symbol, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Quote, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out, nil
}
