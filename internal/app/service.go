// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/tracklite/checkind/internal/adapters/repository"
	"github.com/tracklite/checkind/internal/config"
	"github.com/tracklite/checkind/internal/domain/aggregate"
	"github.com/tracklite/checkind/internal/domain/model"
	"github.com/tracklite/checkind/internal/domain/paging"
	"github.com/tracklite/checkind/internal/domain/timeparse"
	"github.com/tracklite/checkind/internal/domain/types"
	"github.com/tracklite/checkind/internal/ingest"
	"github.com/tracklite/checkind/pkg/logger"
	"github.com/tracklite/checkind/pkg/metrics"
)

// Service implements the API dependencies for the checkins system.
// The event store handle is injected or built at Start; no package-level
// state exists, so two Service instances never share a store.
type Service struct {
	mu sync.RWMutex

	// Core components
	store      repository.Store
	pipeline   *ingest.Pipeline
	normalizer *timeparse.Normalizer

	// Configuration
	storeDriver string
	sqlitePath  string

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithStore injects a pre-built event store. Takes precedence over
// WithStoreDriver; lifecycle stays with the service (closed on Stop).
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStoreDriver selects the store backend built at Start.
func WithStoreDriver(driver, sqlitePath string) Option {
	return func(s *Service) {
		if driver != "" {
			s.storeDriver = driver
		}
		if sqlitePath != "" {
			s.sqlitePath = sqlitePath
		}
	}
}

// WithNormalizer overrides the timestamp normalizer used for ingestion.
func WithNormalizer(n *timeparse.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		storeDriver: config.DriverMemory,
		sqlitePath:  "checkind.db",
		normalizer:  timeparse.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store and the ingestion pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting checkins service...")

	if s.store == nil {
		switch s.storeDriver {
		case config.DriverSQLite:
			store, err := repository.NewSQLiteStore(ctx, s.sqlitePath)
			if err != nil {
				return fmt.Errorf("open sqlite store: %w", err)
			}
			s.store = store
			s.logger.Info(ctx, "using sqlite store", logger.String("path", s.sqlitePath))
		default:
			s.store = repository.NewMemoryStore(ctx)
			s.logger.Info(ctx, "using in-memory store")
		}
	}

	s.pipeline = ingest.New(s.store,
		ingest.WithNormalizer(s.normalizer),
		ingest.WithLogger(s.logger),
	)

	s.started = true
	s.logger.Info(ctx, "checkins service started",
		logger.String("storeDriver", s.storeDriver),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "checkins service stopped")
}

// ListCheckins returns one page of all checkins, most recent first.
func (s *Service) ListCheckins(ctx context.Context, page, size int) (types.Page[types.Checkin], error) {
	return s.FilterCheckins(ctx, page, size, paging.Filter{})
}

// FilterCheckins returns one page of checkins narrowed by filter.
func (s *Service) FilterCheckins(ctx context.Context, page, size int, filter paging.Filter) (types.Page[types.Checkin], error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return types.Page[types.Checkin]{}, err
	}
	return toCheckinPage(paging.Paginate(events, page, size, filter)), nil
}

// UserSummary returns one user's totals, or aggregate.ErrNoCheckins when
// the user has zero events.
func (s *Service) UserSummary(ctx context.Context, user string) (types.UserSummary, error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return types.UserSummary{}, err
	}
	return aggregate.SummaryForUser(events, user)
}

// AggregateByUser returns one row per distinct user.
func (s *Service) AggregateByUser(ctx context.Context) ([]types.UserAggregateRow, error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.ByUser(events), nil
}

// AggregateByDay returns one row per distinct calendar date.
func (s *Service) AggregateByDay(ctx context.Context) ([]types.DailySummary, error) {
	events, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return aggregate.ByDay(events), nil
}

// Ingest pushes a raw batch through the all-or-nothing pipeline.
func (s *Service) Ingest(ctx context.Context, records []model.RawRecord) (ingest.Result, error) {
	s.mu.RLock()
	pipeline := s.pipeline
	s.mu.RUnlock()

	if pipeline == nil {
		return ingest.Result{}, fmt.Errorf("service not started")
	}
	return pipeline.Ingest(ctx, records)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"storeDriver": s.storeDriver,
	}
	if s.started {
		total := s.store.Count(context.Background())
		stats["totalCheckins"] = total
		metrics.UpdateStoreSize(total)
	}
	return stats
}

func (s *Service) snapshot(ctx context.Context) ([]model.CheckinEvent, error) {
	s.mu.RLock()
	store := s.store
	s.mu.RUnlock()

	if store == nil {
		return nil, fmt.Errorf("service not started")
	}
	return store.All(ctx)
}

func toCheckinPage(page types.Page[model.CheckinEvent]) types.Page[types.Checkin] {
	items := make([]types.Checkin, len(page.Items))
	for i, e := range page.Items {
		items[i] = types.Checkin{
			ID:        e.ID,
			User:      e.User,
			Timestamp: e.Timestamp,
			Hours:     e.Hours,
			Project:   e.Project,
		}
	}
	return types.Page[types.Checkin]{
		Items: items,
		Total: page.Total,
		Page:  page.Page,
		Size:  page.Size,
		Pages: page.Pages,
	}
}
