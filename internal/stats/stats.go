// Package stats serves the dashboard summary with a short TTL cache so the
// header can re-render freely without hammering the endpoint.
package stats

import (
	"context"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pverberg/frontdesk/internal/domain"
)

const (
	cacheKey   = "summary"
	defaultTTL = 30 * time.Second
)

// Service fetches and caches the dashboard summary.
type Service struct {
	provider domain.SummaryProvider
	cache    *gocache.Cache
	logger   *slog.Logger
}

// NewService creates a summary service with the given cache TTL. A zero ttl
// uses the default.
func NewService(provider domain.SummaryProvider, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		provider: provider,
		cache:    gocache.New(ttl, 2*ttl),
		logger:   logger,
	}
}

// Get returns the summary, served from cache within the TTL.
func (s *Service) Get(ctx context.Context) (*domain.Summary, error) {
	if cached, ok := s.cache.Get(cacheKey); ok {
		return cached.(*domain.Summary), nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches a fresh summary, bypassing the cache.
func (s *Service) Refresh(ctx context.Context) (*domain.Summary, error) {
	summary, err := s.provider.GetSummary(ctx)
	if err != nil {
		s.logger.Warn("summary fetch failed", "error", err)
		return nil, err
	}
	s.cache.SetDefault(cacheKey, summary)
	return summary, nil
}

// Invalidate drops the cached summary so the next Get re-fetches.
func (s *Service) Invalidate() {
	s.cache.Delete(cacheKey)
}
