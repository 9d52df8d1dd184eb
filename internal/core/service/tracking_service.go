package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/dmlogistics/portal/internal/api/metrics"
	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// TrackingService resolves tracking identifiers against the backend.
type TrackingService struct {
	gateway ports.TrackingGateway
	logger  zerolog.Logger
}

func NewTrackingService(gateway ports.TrackingGateway, logger zerolog.Logger) *TrackingService {
	return &TrackingService{gateway: gateway, logger: logger}
}

// Resolve fetches shipment details and status history for rawID and merges
// them into one view. Individual fetch failures are logged and skipped; only
// the absence of every source is an error, unless ctx ended first, in which
// case ctx.Err() is returned.
func (s *TrackingService) Resolve(ctx context.Context, rawID string) (*domain.TrackingView, error) {
	trimmed := strings.TrimSpace(rawID)
	if trimmed == "" {
		metrics.TrackingLookupsTotal.WithLabelValues("invalid", branchNone).Inc()
		return nil, domain.ErrMissingTrackingNumber
	}

	start := time.Now()
	defer func() { metrics.TrackingResolveDuration.Observe(time.Since(start).Seconds()) }()

	ids := candidates(trimmed)

	var out fetchOutcome
	var g errgroup.Group
	g.Go(func() error {
		out.details, out.detailsID = s.fetchDetails(ctx, ids)
		return nil
	})
	g.Go(func() error {
		out.history, out.historyID, out.bare, out.bareID = s.fetchStatus(ctx, ids)
		return nil
	})
	_ = g.Wait()

	// A cancelled caller makes every attempt fail; that is not a missing shipment.
	if err := ctx.Err(); err != nil {
		metrics.TrackingLookupsTotal.WithLabelValues("cancelled", branchNone).Inc()
		return nil, err
	}

	view, branch, err := reconcile(out)
	if err != nil {
		metrics.TrackingLookupsTotal.WithLabelValues("not_found", branch).Inc()
		s.logger.Info().Str("tracking", trimmed).Msg("no tracking information found")
		return nil, err
	}

	metrics.TrackingLookupsTotal.WithLabelValues("resolved", branch).Inc()
	s.logger.Debug().
		Str("tracking", view.TrackingID).
		Str("branch", branch).
		Str("status", view.Status).
		Int("events", len(view.Timeline)).
		Msg("tracking resolved")
	return view, nil
}

// candidates lists the identifier forms to try: upper-cased first, since the
// backend usually stores identifiers that way, then the caller's own casing.
func candidates(trimmed string) []string {
	upper := strings.ToUpper(trimmed)
	if upper == trimmed {
		return []string{upper}
	}
	return []string{upper, trimmed}
}

func (s *TrackingService) fetchDetails(ctx context.Context, ids []string) (*ports.ShipmentSnapshot, string) {
	for _, id := range ids {
		snapshot, err := s.gateway.ShipmentByTracking(ctx, id)
		if err != nil || snapshot == nil {
			metrics.TrackingFetchAttemptsTotal.WithLabelValues("details", "error").Inc()
			s.logger.Warn().Err(err).Str("tracking", id).Msg("shipment details attempt failed")
			continue
		}
		metrics.TrackingFetchAttemptsTotal.WithLabelValues("details", "ok").Inc()
		return snapshot, id
	}
	return nil, ""
}

// fetchStatus returns the first payload carrying a history array. A payload
// with only a bare status is kept as a fallback while the remaining
// candidates are still tried.
func (s *TrackingService) fetchStatus(ctx context.Context, ids []string) (history *ports.StatusPayload, historyID string, bare *ports.StatusPayload, bareID string) {
	for _, id := range ids {
		payload, err := s.gateway.ShipmentStatus(ctx, id)
		if err != nil || payload == nil {
			metrics.TrackingFetchAttemptsTotal.WithLabelValues("status", "error").Inc()
			s.logger.Warn().Err(err).Str("tracking", id).Msg("status history attempt failed")
			continue
		}
		metrics.TrackingFetchAttemptsTotal.WithLabelValues("status", "ok").Inc()

		if bare == nil && strings.TrimSpace(payload.Status) != "" {
			bare, bareID = payload, id
		}
		if payload.HasHistory || (payload.Success && len(payload.History) > 0) {
			return payload, id, bare, bareID
		}
	}
	return nil, "", bare, bareID
}
