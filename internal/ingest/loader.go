package ingest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/keyword"
	"github.com/hyperjump/findword/internal/models"
	"github.com/hyperjump/findword/internal/store"
)

const (
	defaultChunkSize = 1000
	errorSampleSize  = 10
)

// Loader writes embedded word records into the store and keeps the
// keyword index in sync. Maintenance operations are serialized, so one
// Loader can be shared by the server, the watcher, and the CLI.
type Loader struct {
	mu       sync.Mutex
	store    store.Store
	index    keyword.WordIndex
	logger   *zap.Logger
	errorLog *zap.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithIndex sets the keyword index updated during apply loads.
func WithIndex(idx keyword.WordIndex) LoaderOption {
	return func(l *Loader) { l.index = idx }
}

// WithLogger sets the main logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// WithErrorLog sets a dedicated logger that receives one entry per
// failed record, typically backed by a file.
func WithErrorLog(logger *zap.Logger) LoaderOption {
	return func(l *Loader) { l.errorLog = logger }
}

// NewLoader creates a loader over the given store.
func NewLoader(s store.Store, opts ...LoaderOption) *Loader {
	l := &Loader{store: s, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadOptions control one load run.
type LoadOptions struct {
	// Mode selects apply or dry-run. Empty means apply.
	Mode models.LoadMode
	// Limit caps the number of valid records read from the file; zero
	// reads everything.
	Limit int
	// ChunkSize is the keyword index batch size. Zero uses the default.
	ChunkSize int
	// Progress, when non-nil, is called after each record.
	Progress func(done, total int)
}

// LoadFile reads an embedded word CSV and upserts every valid record.
// Records are isolated: a bad row or a failed upsert is counted and
// logged without aborting the run, and a word repeated within the file
// is skipped. In dry-run mode the store is only consulted for
// existence, never written, and the report carries no store stats. A
// canceled context stops the run and returns the partial report
// alongside the context error.
func (l *Loader) LoadFile(ctx context.Context, path string, opts LoadOptions) (*models.LoadReport, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	mode := opts.Mode
	if mode == "" {
		mode = models.LoadApply
	}
	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	report := &models.LoadReport{
		RunID: uuid.New().String(),
		Mode:  mode,
	}

	records, badRows, err := ReadEmbeddedCSV(path, opts.Limit)
	if err != nil {
		return nil, err
	}
	for _, re := range badRows {
		l.recordError(report, re)
	}
	if len(badRows) > 0 {
		l.logger.Warn("csv rows failed to parse", zap.Int("rows", len(badRows)))
	}

	l.logger.Info("loading words",
		zap.String("run_id", report.RunID),
		zap.String("mode", string(mode)),
		zap.Int("records", len(records)))

	seen := make(map[string]struct{}, len(records))
	var chunk []*models.WordEntry
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if entry := l.loadRecord(ctx, rec, mode, seen, report); entry != nil {
			chunk = append(chunk, entry)
			if len(chunk) >= chunkSize {
				l.indexChunk(chunk)
				chunk = chunk[:0]
			}
		}
		if opts.Progress != nil {
			opts.Progress(i+1, len(records))
		}
	}
	if len(chunk) > 0 {
		l.indexChunk(chunk)
	}

	report.Total = report.Created + report.Updated

	if mode == models.LoadApply {
		stats, err := l.store.Stats(ctx)
		if err != nil {
			l.logger.Warn("failed to read store stats", zap.Error(err))
		} else {
			report.Stats = stats
		}
	}

	l.logger.Info("load complete",
		zap.String("run_id", report.RunID),
		zap.Int("created", report.Created),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", report.Skipped),
		zap.Int("errors", report.Errors))
	return report, nil
}

// loadRecord applies one record and returns the stored entry when the
// keyword index needs updating.
func (l *Loader) loadRecord(ctx context.Context, rec *models.EmbeddedRecord, mode models.LoadMode, seen map[string]struct{}, report *models.LoadReport) *models.WordEntry {
	word := models.NormalizeWord(rec.Word)
	if _, dup := seen[word]; dup {
		report.Skipped++
		return nil
	}
	seen[word] = struct{}{}

	if mode == models.LoadDryRun {
		_, err := l.store.Get(ctx, word)
		switch {
		case err == nil:
			report.Updated++
		case errors.Is(err, models.ErrNotFound):
			report.Created++
		default:
			l.recordError(report, models.RecordError{Word: rec.Word, Reason: err.Error()})
		}
		return nil
	}

	entry, created, err := l.store.Upsert(ctx, word, rec.IsNoun, rec.IsVerb, rec.Embedding)
	if err != nil {
		l.recordError(report, models.RecordError{Word: rec.Word, Reason: err.Error()})
		return nil
	}
	if created {
		report.Created++
	} else {
		report.Updated++
	}
	return entry
}

func (l *Loader) recordError(report *models.LoadReport, re models.RecordError) {
	report.Errors++
	if len(report.ErrorSample) < errorSampleSize {
		report.ErrorSample = append(report.ErrorSample, re)
	}
	if l.errorLog != nil {
		l.errorLog.Error("record failed",
			zap.String("word", re.Word),
			zap.Int("line", re.Line),
			zap.String("reason", re.Reason))
	}
	l.logger.Debug("record failed",
		zap.String("word", re.Word),
		zap.String("reason", re.Reason))
}

// indexChunk mirrors stored entries into the keyword index. Index
// failures are logged, not fatal; the store remains the source of truth
// and RebuildIndex can recover.
func (l *Loader) indexChunk(entries []*models.WordEntry) {
	if l.index == nil || len(entries) == 0 {
		return
	}
	if err := l.index.IndexBatch(entries); err != nil {
		l.logger.Error("failed to index chunk",
			zap.Int("entries", len(entries)),
			zap.Error(err))
	}
}

// Clear removes every word from the store and resets the keyword index.
// Returns the number of words removed.
func (l *Loader) Clear(ctx context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to clear store: %w", err)
	}
	if l.index != nil {
		if err := l.index.Reset(); err != nil {
			return n, fmt.Errorf("failed to reset keyword index: %w", err)
		}
	}
	l.logger.Info("cleared word store", zap.Int64("removed", n))
	return n, nil
}

// RebuildIndex repopulates the keyword index from the store when the
// index is empty but the store is not, which happens when the index
// directory was removed or never built. No-op otherwise. Returns the
// number of words indexed.
func (l *Loader) RebuildIndex(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.index == nil {
		return 0, nil
	}
	docs, err := l.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("failed to read index size: %w", err)
	}
	if docs > 0 {
		return 0, nil
	}
	count, err := l.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	l.logger.Info("rebuilding keyword index", zap.Int64("words", count))
	n := 0
	chunk := make([]*models.WordEntry, 0, defaultChunkSize)
	err = l.store.Scan(ctx, store.ScanOptions{}, func(entry *models.WordEntry) error {
		chunk = append(chunk, entry)
		n++
		if len(chunk) >= defaultChunkSize {
			if err := l.index.IndexBatch(chunk); err != nil {
				return err
			}
			chunk = chunk[:0]
		}
		return nil
	})
	if err != nil {
		return n, fmt.Errorf("failed to rebuild keyword index: %w", err)
	}
	if len(chunk) > 0 {
		if err := l.index.IndexBatch(chunk); err != nil {
			return n, fmt.Errorf("failed to rebuild keyword index: %w", err)
		}
	}
	return n, nil
}
