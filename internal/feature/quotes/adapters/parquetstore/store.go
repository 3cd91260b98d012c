// Package parquetstore writes and reads quote batches as Parquet files.
package parquetstore

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/feature/quotes/usecase"
)

// quoteRow is the on-disk row layout. Pointer fields are optional columns.
type quoteRow struct {
	Symbol    string     `parquet:"symbol"`
	Open      *float64   `parquet:"open"`
	High      *float64   `parquet:"high"`
	Low       *float64   `parquet:"low"`
	Close     *float64   `parquet:"close"`
	Volume    *int64     `parquet:"volume"`
	Timestamp *time.Time `parquet:"timestamp"`
}

// Store writes one Parquet file per batch under dir.
type Store struct {
	dir string
	now func() time.Time
}

var (
	_ usecase.ColumnarWriter = (*Store)(nil)
	_ usecase.ColumnarReader = (*Store)(nil)
)

// NewStore creates a Store rooted at dir. The directory is created on first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the output directory.
func (s *Store) Dir() string {
	return s.dir
}

// WriteBatch writes quotes to dir/filename and returns the path. An empty filename
// is replaced by quotes_<UTC yyyymmddhhmmss>.parquet. An existing file is overwritten.
// An empty batch still produces a valid zero-row file.
func (s *Store) WriteBatch(quotes []entity.Quote, filename string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir %s: %w", s.dir, err)
	}
	if filename == "" {
		filename = fmt.Sprintf("quotes_%s.parquet", s.now().UTC().Format("20060102150405"))
	}
	out := filepath.Join(s.dir, filename)

	rows := make([]quoteRow, 0, len(quotes))
	for _, q := range quotes {
		rows = append(rows, toRow(q))
	}
	if err := parquet.WriteFile(out, rows); err != nil {
		return "", fmt.Errorf("write parquet %s: %w", out, err)
	}
	return out, nil
}

// ReadBatch reads every row of a file written by WriteBatch.
func (s *Store) ReadBatch(path string) ([]entity.Quote, error) {
	rows, err := parquet.ReadFile[quoteRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet %s: %w", path, err)
	}
	out := make([]entity.Quote, 0, len(rows))
	for _, r := range rows {
		out = append(out, toEntity(r))
	}
	return out, nil
}

// List returns the Parquet files in the output directory in lexical order.
func (s *Store) List() ([]string, error) {
	return filepath.Glob(filepath.Join(s.dir, "*.parquet"))
}

func toRow(q entity.Quote) quoteRow {
	return quoteRow{
		Symbol:    q.Symbol,
		Open:      q.Open,
		High:      q.High,
		Low:       q.Low,
		Close:     q.Close,
		Volume:    q.Volume,
		Timestamp: q.Timestamp,
	}
}

func toEntity(r quoteRow) entity.Quote {
	q := entity.Quote{
		Symbol: r.Symbol,
		Open:   r.Open,
		High:   r.High,
		Low:    r.Low,
		Close:  r.Close,
		Volume: r.Volume,
	}
	if r.Timestamp != nil {
		ts := r.Timestamp.UTC()
		q.Timestamp = &ts
	}
	return q
}
