package service

import (
	"context"
	"slices"
	"strings"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/dmlogistics/portal/internal/api/metrics"
	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

const (
	defaultListTTL = time.Minute
	adminListKey   = "admin"
)

// DedupChecker abstracts the idempotency store (Redis) for status updates.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, trackingNumber, status, location string) (bool, error)
	Mark(ctx context.Context, trackingNumber, status, location string) error
}

type ShipmentService struct {
	gateway  ports.ShipmentGateway
	dedup    DedupChecker
	activity ports.ActivityRecorder
	lists    *cache.Cache
	logger   zerolog.Logger
}

// NewShipmentService builds the shipment repository. Listings are cached per
// scope for listTTL; every successful mutation drops the cache and refetches.
func NewShipmentService(
	gateway ports.ShipmentGateway,
	dedup DedupChecker,
	activity ports.ActivityRecorder,
	listTTL time.Duration,
	logger zerolog.Logger,
) *ShipmentService {
	if listTTL <= 0 {
		listTTL = defaultListTTL
	}
	return &ShipmentService{
		gateway:  gateway,
		dedup:    dedup,
		activity: activity,
		lists:    cache.New(listTTL, 2*listTTL),
		logger:   logger,
	}
}

// ListShipments returns the shipments visible to actor: every shipment for the
// admin tier, the actor's recent shipments otherwise. Failures are logged and
// produce an empty list.
func (s *ShipmentService) ListShipments(ctx context.Context, actor domain.Actor) []domain.ShipmentRecord {
	scope, key := listScope(actor)

	if v, ok := s.lists.Get(key); ok {
		metrics.ShipmentListFetchTotal.WithLabelValues(scope, "cache_hit").Inc()
		return slices.Clone(v.([]domain.ShipmentRecord))
	}

	records, err := s.fetch(ctx, actor)
	if err != nil {
		metrics.ShipmentListFetchTotal.WithLabelValues(scope, "error").Inc()
		s.logger.Error().Err(err).Str("scope", scope).Str("email", actor.Email).Msg("failed to list shipments")
		return []domain.ShipmentRecord{}
	}

	metrics.ShipmentListFetchTotal.WithLabelValues(scope, "ok").Inc()
	s.lists.Set(key, records, cache.DefaultExpiration)
	return slices.Clone(records)
}

func (s *ShipmentService) fetch(ctx context.Context, actor domain.Actor) ([]domain.ShipmentRecord, error) {
	if actor.IsAdmin() {
		flat, err := s.gateway.AllShipments(ctx)
		if err != nil {
			return nil, err
		}
		records := make([]domain.ShipmentRecord, 0, len(flat))
		for _, f := range flat {
			records = append(records, mapFlatShipment(f))
		}
		return records, nil
	}

	email := strings.TrimSpace(actor.Email)
	if email == "" {
		s.logger.Warn().Str("role", actor.Role).Msg("actor has no email, returning no shipments")
		return []domain.ShipmentRecord{}, nil
	}
	nested, err := s.gateway.RecentShipments(ctx, email)
	if err != nil {
		return nil, err
	}
	records := make([]domain.ShipmentRecord, 0, len(nested))
	for _, n := range nested {
		records = append(records, mapNestedShipment(n))
	}
	return records, nil
}

// GetShipment finds one shipment among those visible to actor.
func (s *ShipmentService) GetShipment(ctx context.Context, actor domain.Actor, trackingNumber string) (*domain.ShipmentRecord, error) {
	if strings.TrimSpace(trackingNumber) == "" {
		return nil, domain.ErrMissingTrackingNumber
	}
	for _, r := range s.ListShipments(ctx, actor) {
		if r.SameTracking(trackingNumber) {
			record := r
			return &record, nil
		}
	}
	return nil, domain.ErrShipmentNotFound
}

// CreateShipment registers a shipment with the backend.
func (s *ShipmentService) CreateShipment(ctx context.Context, actor domain.Actor, input ports.CreateShipmentInput) ports.MutationResult {
	result, err := s.gateway.CreateShipment(ctx, input)
	if err != nil {
		metrics.ShipmentMutationsTotal.WithLabelValues("create", "error").Inc()
		s.logger.Error().Err(err).Str("email", actor.Email).Msg("failed to create shipment")
		return ports.MutationResult{Error: "failed to create shipment", Unavailable: true}
	}
	if !result.Success {
		metrics.ShipmentMutationsTotal.WithLabelValues("create", "rejected").Inc()
		s.logger.Warn().Str("error", result.Error).Str("email", actor.Email).Msg("backend rejected shipment")
		return *result
	}

	metrics.ShipmentMutationsTotal.WithLabelValues("create", "ok").Inc()
	s.logger.Info().Str("tracking_number", result.TrackingNumber).Str("email", actor.Email).Msg("shipment created")
	s.record(actor, domain.ActivityShipmentCreated, result.TrackingNumber, input.PackageType)
	s.refresh(ctx, actor)
	return *result
}

// UpdateStatus applies a status change. An identical change (same shipment,
// status and location) already applied within the dedup window is skipped.
func (s *ShipmentService) UpdateStatus(ctx context.Context, actor domain.Actor, trackingNumber string, input ports.StatusUpdateInput) ports.MutationResult {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return ports.MutationResult{Error: domain.ErrMissingTrackingNumber.Error()}
	}

	isDup, err := s.dedup.IsDuplicate(ctx, trackingNumber, input.Status, input.Location)
	if err != nil {
		s.logger.Warn().Err(err).Str("tracking", trackingNumber).Msg("dedup check failed, updating anyway")
	} else if isDup {
		metrics.ShipmentMutationsTotal.WithLabelValues("update_status", "duplicate").Inc()
		s.logger.Debug().Str("tracking", trackingNumber).Str("status", input.Status).Msg("duplicate status update skipped")
		return ports.MutationResult{Success: true, TrackingNumber: trackingNumber, Duplicate: true}
	}

	result, err := s.gateway.UpdateStatus(ctx, trackingNumber, input)
	if err != nil {
		metrics.ShipmentMutationsTotal.WithLabelValues("update_status", "error").Inc()
		s.logger.Error().Err(err).Str("tracking", trackingNumber).Msg("failed to update shipment status")
		return ports.MutationResult{Error: "failed to update shipment status", Unavailable: true}
	}
	if !result.Success {
		metrics.ShipmentMutationsTotal.WithLabelValues("update_status", "rejected").Inc()
		s.logger.Warn().Str("tracking", trackingNumber).Str("error", result.Error).Msg("backend rejected status update")
		return *result
	}

	if markErr := s.dedup.Mark(ctx, trackingNumber, input.Status, input.Location); markErr != nil {
		s.logger.Warn().Err(markErr).Str("tracking", trackingNumber).Msg("failed to set dedup key")
	}

	metrics.ShipmentMutationsTotal.WithLabelValues("update_status", "ok").Inc()
	s.logger.Info().
		Str("tracking", trackingNumber).
		Str("status", input.Status).
		Str("location", input.Location).
		Str("by", actor.Email).
		Msg("shipment status updated")
	s.record(actor, domain.ActivityStatusUpdated, trackingNumber, input.Status)
	s.refresh(ctx, actor)

	if result.TrackingNumber == "" {
		result.TrackingNumber = trackingNumber
	}
	return *result
}

// RecordReceipt logs a receipt download in the activity log.
func (s *ShipmentService) RecordReceipt(actor domain.Actor, trackingNumber string) {
	s.record(actor, domain.ActivityReceiptGenerated, trackingNumber, "")
}

// refresh drops every cached listing and refetches the actor's list, so the
// next read reflects the backend rather than a patched copy.
func (s *ShipmentService) refresh(ctx context.Context, actor domain.Actor) {
	s.lists.Flush()
	_ = s.ListShipments(ctx, actor)
}

func (s *ShipmentService) record(actor domain.Actor, action, trackingNumber, detail string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(domain.ActivityEntry{
		Action:         action,
		TrackingNumber: trackingNumber,
		ActorEmail:     actor.Email,
		ActorRole:      actor.Role,
		Detail:         detail,
		OccurredAt:     time.Now().UTC(),
	})
}

func listScope(actor domain.Actor) (scope, key string) {
	if actor.IsAdmin() {
		return "admin", adminListKey
	}
	return "user", "user:" + strings.ToLower(strings.TrimSpace(actor.Email))
}
