package service

import (
	"context"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/dmlogistics/portal/internal/api/metrics"
	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

const defaultSessionTTL = 30 * time.Minute

// TrackingSessions suppresses stale responses for clients that issue
// overlapping tracking queries. Each client session keeps a generation
// counter; a result whose generation is no longer the newest is discarded.
type TrackingSessions struct {
	resolver ports.TrackingResolver
	sessions *cache.Cache
	mu       sync.Mutex
}

// NewTrackingSessions creates a registry whose idle sessions expire after ttl.
func NewTrackingSessions(resolver ports.TrackingResolver, ttl time.Duration) *TrackingSessions {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &TrackingSessions{
		resolver: resolver,
		sessions: cache.New(ttl, ttl/2),
	}
}

// Track resolves rawID on behalf of sessionID. A newer Track call on the same
// session cancels this one's context, and this call then returns
// domain.ErrSupersededQuery instead of its result.
func (r *TrackingSessions) Track(ctx context.Context, sessionID, rawID string) (*domain.TrackingView, error) {
	view, err := r.session(sessionID).track(ctx, r.resolver, rawID)
	if err == domain.ErrSupersededQuery {
		metrics.TrackingLookupsTotal.WithLabelValues("superseded", branchNone).Inc()
	}
	return view, err
}

func (r *TrackingSessions) session(id string) *trackingSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.sessions.Get(id); ok {
		s := v.(*trackingSession)
		r.sessions.Set(id, s, cache.DefaultExpiration)
		return s
	}
	s := &trackingSession{}
	r.sessions.Set(id, s, cache.DefaultExpiration)
	return s
}

type trackingSession struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

func (s *trackingSession) track(ctx context.Context, resolver ports.TrackingResolver, rawID string) (*domain.TrackingView, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	if s.cancel != nil {
		s.cancel()
	}
	queryCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	view, err := resolver.Resolve(queryCtx, rawID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return nil, domain.ErrSupersededQuery
	}
	cancel()
	s.cancel = nil
	return view, err
}
