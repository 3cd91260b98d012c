package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"stock_etl/internal/feature/quotes/domain/entity"
)

// ColumnarReader reads back a columnar file written by a ColumnarWriter.
type ColumnarReader interface {
	ReadBatch(path string) ([]entity.Quote, error)
}

// FileReport is the outcome of reloading one columnar file.
type FileReport struct {
	Path       string
	Records    int
	Relational StageResult
}

// ReloadUsecase loads previously written columnar files into the relational store
// without calling the provider.
type ReloadUsecase struct {
	reader     ColumnarReader
	relational QuoteWriter
}

// NewReloadUsecase creates a ReloadUsecase.
func NewReloadUsecase(reader ColumnarReader, relational QuoteWriter) *ReloadUsecase {
	return &ReloadUsecase{reader: reader, relational: relational}
}

// Reload reads each file in order and writes its quotes to the relational store.
// A read failure aborts; a relational failure is logged and the next file is processed.
func (u *ReloadUsecase) Reload(ctx context.Context, paths []string) ([]FileReport, error) {
	if len(paths) == 0 {
		return nil, ErrNoColumnarFiles
	}
	slog.Info("starting ETL (from columnar files only)", "files", len(paths))

	reports := make([]FileReport, 0, len(paths))
	for _, path := range paths {
		slog.Info("loading columnar file", "path", path)
		quotes, err := u.reader.ReadBatch(path)
		if err != nil {
			return reports, fmt.Errorf("read %s: %w", path, err)
		}

		fr := FileReport{
			Path:       path,
			Records:    len(quotes),
			Relational: StageResult{Stage: StageWritingRelational, Err: u.relational.WriteRows(ctx, quotes)},
		}
		if fr.Relational.Failed() {
			slog.Warn("relational save failed", "path", path, "error", fr.Relational.Err)
		} else {
			slog.Info("inserted records into relational store", "path", path, "records", len(quotes))
		}
		reports = append(reports, fr)
	}
	return reports, nil
}
