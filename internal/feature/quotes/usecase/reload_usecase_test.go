package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_etl/internal/feature/quotes/domain/entity"
)

type mockColumnarReader struct {
	ReadBatchFunc func(path string) ([]entity.Quote, error)
	Paths         []string
}

func (m *mockColumnarReader) ReadBatch(path string) ([]entity.Quote, error) {
	m.Paths = append(m.Paths, path)
	if m.ReadBatchFunc != nil {
		return m.ReadBatchFunc(path)
	}
	return []entity.Quote{{Symbol: "ASX"}, {Symbol: "ASX"}}, nil
}

func TestReloadUsecase_Reload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		paths       []string
		readFunc    func(path string) ([]entity.Quote, error)
		writeFunc   func(ctx context.Context, quotes []entity.Quote) error
		wantErr     error
		wantReports int
		wantFailed  []bool
	}{
		{
			name:    "failure: no files",
			paths:   nil,
			wantErr: ErrNoColumnarFiles,
		},
		{
			name:        "success: every file loaded",
			paths:       []string{"a.parquet", "b.parquet"},
			wantReports: 2,
			wantFailed:  []bool{false, false},
		},
		{
			name:  "success: relational failure on one file continues",
			paths: []string{"a.parquet", "b.parquet"},
			writeFunc: func() func(ctx context.Context, quotes []entity.Quote) error {
				calls := 0
				return func(ctx context.Context, quotes []entity.Quote) error {
					calls++
					if calls == 1 {
						return ErrDB
					}
					return nil
				}
			}(),
			wantReports: 2,
			wantFailed:  []bool{true, false},
		},
		{
			name:  "failure: unreadable file aborts",
			paths: []string{"a.parquet", "broken.parquet", "c.parquet"},
			readFunc: func(path string) ([]entity.Quote, error) {
				if path == "broken.parquet" {
					return nil, errors.New("not a parquet file")
				}
				return []entity.Quote{{Symbol: "BHP"}}, nil
			},
			wantErr:     errors.New("read broken.parquet: not a parquet file"),
			wantReports: 1,
			wantFailed:  []bool{false},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader := &mockColumnarReader{ReadBatchFunc: tt.readFunc}
			writer := &mockQuoteWriter{WriteRowsFunc: tt.writeFunc}
			uc := NewReloadUsecase(reader, writer)

			reports, err := uc.Reload(context.Background(), tt.paths)

			if tt.wantErr != nil {
				require.Error(t, err)
				if errors.Is(tt.wantErr, ErrNoColumnarFiles) {
					assert.ErrorIs(t, err, ErrNoColumnarFiles)
				} else {
					assert.EqualError(t, err, tt.wantErr.Error())
				}
			} else {
				require.NoError(t, err)
			}
			require.Len(t, reports, tt.wantReports)
			for i, failed := range tt.wantFailed {
				assert.Equal(t, failed, reports[i].Relational.Failed(), "report %d", i)
			}
		})
	}
}
