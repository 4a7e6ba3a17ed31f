// Package workprogress is the data-access layer for the Work & Progress
// module: work sessions, tasks, accomplishments, status reports and activity
// logs.
//
// The layer mediates between two collaborators. Entity reads and writes go
// directly to the remote store under the caller's bearer identity; activity
// logs go through the API server's routes, which own field validation and
// metadata shaping. Read paths never fail: a remote error degrades to fresh
// cache, then stale cache, then the persisted mirror, then an empty result.
// Write paths translate store errors into the layer's taxonomy and propagate
// them.
package workprogress

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meetingscribe/workprogress/internal/auth"
	"github.com/meetingscribe/workprogress/internal/cache"
	"github.com/meetingscribe/workprogress/internal/config"
	"github.com/meetingscribe/workprogress/internal/postgrest"
)

// Service is the single point of access for work-progress data.
type Service struct {
	store   *postgrest.Client
	api     *APIClient
	source  auth.Source
	tasks   *cache.TTLCache[[]Task]
	mirror  *cache.Mirror
	logger  *zap.Logger
	metrics *Metrics
}

// NewService creates the data-access service.
//
// The API client may be nil when activity-log operations are not needed
// (they will fail with a configuration error). Everything else is required.
func NewService(store *postgrest.Client, api *APIClient, source auth.Source, cfg config.CacheConfig, logger *zap.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("workprogress: store client is required")
	}
	if source == nil {
		return nil, fmt.Errorf("workprogress: auth source is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tasks, err := cache.NewTTL[[]Task](cfg.MaxEntries, cfg.TTL.Duration())
	if err != nil {
		return nil, fmt.Errorf("workprogress: %w", err)
	}

	mirror, err := cache.NewMirror(cfg.MirrorPath, logger.Named("mirror"))
	if err != nil {
		return nil, fmt.Errorf("workprogress: %w", err)
	}

	return &Service{
		store:   store,
		api:     api,
		source:  source,
		tasks:   tasks,
		mirror:  mirror,
		logger:  logger,
		metrics: NewMetrics(logger),
	}, nil
}

// taskCacheKey derives the cache key from the canonical serialization of the
// filter set. BypassCache is excluded, so bypassed reads refresh the same key.
func taskCacheKey(f TaskFilters) string {
	payload, err := json.Marshal(f)
	if err != nil {
		// Filters are plain data; marshaling cannot realistically fail.
		return "tasks_{}"
	}
	return "tasks_" + string(payload)
}

// observe wraps an operation with duration and error metrics.
func (s *Service) observe(ctx context.Context, op string, start time.Time, err error) {
	s.metrics.RecordOperation(ctx, op, time.Since(start), err)
}
