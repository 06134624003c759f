package ingest

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/findword/internal/embedding"
	"github.com/hyperjump/findword/internal/models"
)

const skippedSampleSize = 10

// Attacher joins classified words with vectors from a pretrained model.
type Attacher struct {
	model  embedding.Model
	logger *zap.Logger
}

// NewAttacher creates an attacher over the given model. logger may be
// nil.
func NewAttacher(model embedding.Model, logger *zap.Logger) *Attacher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Attacher{model: model, logger: logger}
}

// Attach looks up an embedding for every record. Words missing from the
// model vocabulary are dropped and counted, with the first few kept as a
// sample in the stats. progress, when non-nil, is called after each
// record.
func (a *Attacher) Attach(records []*models.ClassifiedRecord, progress func(done, total int)) ([]*models.EmbeddedRecord, *models.AttachStats) {
	stats := &models.AttachStats{
		Total:     len(records),
		Dimension: a.model.Dimension(),
	}

	embedded := make([]*models.EmbeddedRecord, 0, len(records))
	for i, rec := range records {
		word := strings.TrimSpace(rec.Word)
		var vec []float32
		ok := false
		if word != "" {
			vec, ok = a.model.Lookup(word)
		}
		if ok {
			embedded = append(embedded, &models.EmbeddedRecord{
				Word:      rec.Word,
				IsNoun:    rec.IsNoun,
				IsVerb:    rec.IsVerb,
				Embedding: vec,
			})
			stats.Embedded++
		} else {
			stats.Skipped++
			if len(stats.SkippedSample) < skippedSampleSize {
				stats.SkippedSample = append(stats.SkippedSample, rec.Word)
			}
		}
		if progress != nil {
			progress(i+1, len(records))
		}
	}

	if stats.Skipped > 0 {
		a.logger.Warn("words missing from model vocabulary",
			zap.Int("skipped", stats.Skipped),
			zap.Strings("sample", stats.SkippedSample))
	}
	a.logger.Info("attached embeddings",
		zap.Int("total", stats.Total),
		zap.Int("embedded", stats.Embedded),
		zap.Int("dimension", stats.Dimension))
	return embedded, stats
}
