package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"stock_etl/internal/feature/quotes/domain/entity"
	"stock_etl/internal/shared/ratelimiter"
)

// MarketProvider fetches a daily series from an external data provider and
// converts the provider's payload into quotes.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketProvider interface {
	// Name returns the registry name of the provider.
	Name() string
	// FetchDailySeries performs one request and returns the raw response body.
	FetchDailySeries(ctx context.Context, symbol string, size entity.OutputSize) (json.RawMessage, error)
	// Normalize turns a raw payload into quotes. It never fails.
	Normalize(symbol string, raw json.RawMessage) []entity.Quote
}

// ColumnarWriter persists a batch of quotes as one columnar file.
type ColumnarWriter interface {
	// WriteBatch writes quotes to filename (synthesised when empty) and returns the file path.
	WriteBatch(quotes []entity.Quote, filename string) (string, error)
}

// Archiver copies a local file to durable object storage.
type Archiver interface {
	Archive(ctx context.Context, localPath, key string) error
}

// QuoteWriter persists quotes to the relational store.
type QuoteWriter interface {
	WriteRows(ctx context.Context, quotes []entity.Quote) error
}

// Stage names a step of the per-symbol pipeline.
type Stage string

const (
	StageFetching          Stage = "fetching"
	StageNormalizing       Stage = "normalizing"
	StageWritingColumnar   Stage = "writing_columnar"
	StageArchiving         Stage = "archiving"
	StageWritingRelational Stage = "writing_relational"
	StageDone              Stage = "done"
)

// StageResult is the outcome of a best-effort stage.
type StageResult struct {
	Stage   Stage
	Skipped bool
	Err     error
}

// Failed reports whether the stage ran and failed.
func (r StageResult) Failed() bool {
	return r.Err != nil
}

// SymbolReport summarises the processing of one symbol.
type SymbolReport struct {
	Symbol       string
	Records      int
	FilePath     string
	Archive      StageResult
	Relational   StageResult
	ReachedStage Stage
}

// RunReport summarises one invocation of Run.
type RunReport struct {
	RunID   string
	Symbols []SymbolReport
}

// ColumnarFilename is the per-symbol file name used by live-fetch runs.
func ColumnarFilename(symbol string) string {
	return symbol + "_quotes.parquet"
}

// ArchiveKey is the object key for a columnar file: <SYMBOL>/<basename>.
func ArchiveKey(symbol, localPath string) string {
	return symbol + "/" + filepath.Base(localPath)
}

// PipelineUsecase runs the extract, transform and load steps for each configured symbol.
type PipelineUsecase struct {
	provider   MarketProvider
	columnar   ColumnarWriter
	archiver   Archiver
	relational QuoteWriter
	limiter    ratelimiter.Limiter
	size       entity.OutputSize
	newRunID   func() string
}

// NewPipelineUsecase creates a PipelineUsecase. archiver and limiter may be nil;
// a nil archiver skips archiving and a nil limiter disables throttling.
// An invalid size falls back to entity.OutputSizeCompact.
func NewPipelineUsecase(
	provider MarketProvider,
	columnar ColumnarWriter,
	archiver Archiver,
	relational QuoteWriter,
	limiter ratelimiter.Limiter,
	size entity.OutputSize,
) *PipelineUsecase {
	if !size.Valid() {
		size = entity.OutputSizeCompact
	}
	return &PipelineUsecase{
		provider:   provider,
		columnar:   columnar,
		archiver:   archiver,
		relational: relational,
		limiter:    limiter,
		size:       size,
		newRunID:   uuid.NewString,
	}
}

// Run processes symbols strictly in order, one at a time.
//
// A fetch or columnar write failure aborts the run and is returned together with
// the report of the symbols processed so far. Archive and relational failures
// are logged and do not stop the run.
func (p *PipelineUsecase) Run(ctx context.Context, symbols []string) (RunReport, error) {
	report := RunReport{RunID: p.newRunID()}
	log := slog.With("run_id", report.RunID, "provider", p.provider.Name())
	log.Info("starting ETL", "symbols", len(symbols))

	for _, s := range symbols {
		symbol := strings.ToUpper(strings.TrimSpace(s))
		log.Info("processing symbol", "symbol", symbol)

		sr, err := p.processSymbol(ctx, log, symbol)
		report.Symbols = append(report.Symbols, sr)
		if err != nil {
			log.Error("ETL aborted", "symbol", symbol, "stage", sr.ReachedStage, "error", err)
			return report, err
		}
	}

	log.Info("ETL finished", "symbols", len(report.Symbols))
	return report, nil
}

func (p *PipelineUsecase) processSymbol(ctx context.Context, log *slog.Logger, symbol string) (SymbolReport, error) {
	sr := SymbolReport{Symbol: symbol, ReachedStage: StageFetching}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx); err != nil {
			return sr, fmt.Errorf("fetch %s: %w", symbol, err)
		}
	}
	raw, err := p.provider.FetchDailySeries(ctx, symbol, p.size)
	if err != nil {
		return sr, fmt.Errorf("fetch %s: %w", symbol, err)
	}

	sr.ReachedStage = StageNormalizing
	quotes := p.provider.Normalize(symbol, raw)
	sr.Records = len(quotes)

	sr.ReachedStage = StageWritingColumnar
	path, err := p.columnar.WriteBatch(quotes, ColumnarFilename(symbol))
	if err != nil {
		return sr, fmt.Errorf("write columnar %s: %w", symbol, err)
	}
	sr.FilePath = path
	log.Info("saved columnar batch", "symbol", symbol, "path", path, "records", len(quotes))

	sr.ReachedStage = StageArchiving
	sr.Archive = p.archive(ctx, symbol, path)
	switch {
	case sr.Archive.Failed():
		log.Warn("archive upload failed", "symbol", symbol, "stage", sr.Archive.Stage, "error", sr.Archive.Err)
	case !sr.Archive.Skipped:
		log.Info("archived columnar batch", "symbol", symbol, "key", ArchiveKey(symbol, path))
	}

	sr.ReachedStage = StageWritingRelational
	sr.Relational = p.persist(ctx, quotes)
	if sr.Relational.Failed() {
		log.Warn("relational save failed", "symbol", symbol, "stage", sr.Relational.Stage, "error", sr.Relational.Err)
	} else {
		log.Info("inserted records into relational store", "symbol", symbol, "records", len(quotes))
	}

	sr.ReachedStage = StageDone
	return sr, nil
}

// archive is best-effort: its error is reported, never returned.
func (p *PipelineUsecase) archive(ctx context.Context, symbol, path string) StageResult {
	if p.archiver == nil {
		return StageResult{Stage: StageArchiving, Skipped: true}
	}
	return StageResult{Stage: StageArchiving, Err: p.archiver.Archive(ctx, path, ArchiveKey(symbol, path))}
}

// persist is best-effort: its error is reported, never returned.
func (p *PipelineUsecase) persist(ctx context.Context, quotes []entity.Quote) StageResult {
	return StageResult{Stage: StageWritingRelational, Err: p.relational.WriteRows(ctx, quotes)}
}
