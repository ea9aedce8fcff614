// Package ingest drives raw checkin batches through normalization and into
// the store.
//
// The pipeline is all-or-nothing: every raw timestamp must normalize before
// a single write happens, and the write itself is one atomic append. A batch
// with one bad record stores nothing.
package ingest

import (
	"context"

	"github.com/tracklite/checkind/internal/adapters/repository"
	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/internal/domain/timeparse"
	"github.com/tracklite/checkind/pkg/logger"
	"github.com/tracklite/checkind/pkg/metrics"
)

// Result reports a successful ingestion.
type Result struct {
	Stored int
}

// Pipeline validates and stores raw checkin batches.
type Pipeline struct {
	normalizer *timeparse.Normalizer
	store      repository.Store
	log        logger.Logger
}

// Option applies a configuration option to the Pipeline.
type Option func(*Pipeline)

// WithNormalizer overrides the default timestamp normalizer.
func WithNormalizer(n *timeparse.Normalizer) Option {
	return func(p *Pipeline) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// WithLogger sets a custom logger for the pipeline.
func WithLogger(log logger.Logger) Option {
	return func(p *Pipeline) {
		if log != nil {
			p.log = log
		}
	}
}

// New constructs a Pipeline writing to store.
func New(store repository.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		normalizer: timeparse.New(),
		store:      store,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get()
	}
	return p
}

// Ingest normalizes every record in input order, then submits the full batch
// as one atomic write. The first unparseable timestamp rejects the whole
// batch before anything touches the store; a storage failure persists
// nothing either. There is no skip-and-continue.
func (p *Pipeline) Ingest(ctx context.Context, records []model.RawRecord) (Result, error) {
	batch := make([]model.CheckinEvent, 0, len(records))
	for i, r := range records {
		ts, err := p.normalizer.Normalize(r.RawTimestamp)
		if err != nil {
			metrics.RecordParseFailure()
			metrics.RecordBatchRejected()
			p.log.Warn(ctx, "rejecting batch on unparseable timestamp",
				logger.Int("record", i),
				logger.String("raw", r.RawTimestamp),
			)
			return Result{}, &RecordError{Index: i, Err: err}
		}
		batch = append(batch, model.CheckinEvent{
			User:      r.User,
			Timestamp: ts,
			Hours:     r.Hours,
			Project:   r.Project,
		})
	}

	stored, err := p.store.Append(ctx, batch)
	if err != nil {
		metrics.RecordBatchRejected()
		p.log.Error(ctx, "atomic append failed", logger.Error(err))
		return Result{}, err
	}

	metrics.RecordCheckinsStored(stored)
	p.log.Info(ctx, "batch ingested", logger.Int("stored", stored))
	return Result{Stored: stored}, nil
}
