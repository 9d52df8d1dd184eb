package service

import (
	"slices"
	"strings"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// Reconciliation branches, in the order they are tried.
const (
	branchHistory  = "history"
	branchSnapshot = "snapshot"
	branchStatus   = "status"
	branchNone     = "none"
)

// sortKey orders history entries. Missing or unparseable timestamps count as
// the Unix epoch so they can never mask a known-good recent entry.
func sortKey(raw string) int64 {
	t, ok := domain.ParseTimestamp(raw)
	if !ok {
		return 0
	}
	return t.UnixNano()
}

// fetchOutcome is everything the two concurrent fetches produced. Each field
// pair is empty when every attempt for that source failed.
type fetchOutcome struct {
	details   *ports.ShipmentSnapshot
	detailsID string

	history   *ports.StatusPayload
	historyID string

	bare   *ports.StatusPayload
	bareID string
}

// reconcile merges the fetch results into a single view. It is pure: the same
// outcome always yields the same view.
func reconcile(out fetchOutcome) (*domain.TrackingView, string, error) {
	switch {
	case out.history != nil && len(out.history.History) > 0:
		return fromHistory(out), branchHistory, nil
	case out.details != nil:
		return fromSnapshot(out.details, out.detailsID), branchSnapshot, nil
	case out.bare != nil:
		return fromBareStatus(out.bare, out.bareID), branchStatus, nil
	default:
		return nil, branchNone, domain.ErrTrackingNotFound
	}
}

func fromHistory(out fetchOutcome) *domain.TrackingView {
	history := sortHistory(out.history.History)
	latest := history[len(history)-1]

	status := strings.TrimSpace(latest.Status)
	if status == "" && out.details != nil {
		status = strings.TrimSpace(out.details.Status)
	}
	if status == "" {
		status = domain.StatusRegistered
	}

	location := latestHistoryLocation(history)
	if location == "" && out.details != nil {
		location = strings.TrimSpace(out.details.CurrentLocation)
	}
	if location == "" {
		location = domain.LocationNotSpecified
	}

	timeline := make([]domain.TimelineEntry, len(history))
	for i, e := range history {
		timeline[i] = domain.TimelineEntry{
			Status:      e.Status,
			Location:    orNotAvailable(e.Location),
			Date:        e.Timestamp,
			Completed:   i < len(history)-1 || domain.StatusIs(status, domain.StatusDelivered),
			Coordinates: strings.TrimSpace(e.Coordinates),
			Note:        strings.TrimSpace(e.Note),
		}
	}
	if fromTimeline := latestTimelineLocation(timeline); fromTimeline != "" {
		location = fromTimeline
	}

	view := baseView(out.details, out.historyID)
	view.Status = status
	view.CurrentLocation = location
	view.Timeline = timeline
	return view
}

func fromSnapshot(s *ports.ShipmentSnapshot, trackingID string) *domain.TrackingView {
	status := strings.TrimSpace(s.Status)
	if status == "" {
		status = domain.StatusRegistered
	}
	// The sender address is an origin, not a position: it is never a fallback.
	location := strings.TrimSpace(s.CurrentLocation)
	if location == "" {
		location = domain.LocationNotSpecified
	}

	view := baseView(s, trackingID)
	view.Status = status
	view.CurrentLocation = location
	view.Timeline = []domain.TimelineEntry{{
		Status:    status,
		Location:  orNotAvailable(s.CurrentLocation),
		Date:      s.CreatedAt,
		Completed: domain.StatusIs(status, domain.StatusDelivered),
	}}
	return view
}

func fromBareStatus(p *ports.StatusPayload, trackingID string) *domain.TrackingView {
	status := strings.TrimSpace(p.Status)
	location := firstNonEmpty(p.CurrentLocation, p.Location)
	if location == "" {
		location = domain.LocationNotSpecified
	}

	view := baseView(nil, trackingID)
	view.Status = status
	view.CurrentLocation = location
	view.Timeline = []domain.TimelineEntry{{
		Status:    status,
		Location:  orNotAvailable(firstNonEmpty(p.Location, p.CurrentLocation)),
		Date:      p.Timestamp,
		Completed: domain.StatusIs(status, domain.StatusDelivered),
	}}
	return view
}

// baseView fills the fields that only the shipment snapshot can provide.
func baseView(s *ports.ShipmentSnapshot, trackingID string) *domain.TrackingView {
	view := &domain.TrackingView{
		TrackingID:         trackingID,
		RecipientName:      domain.NotAvailable,
		DestinationAddress: domain.NotAvailable,
		ServiceType:        domain.NotAvailable,
	}
	if s == nil {
		return view
	}
	view.RecipientName = orNotAvailable(s.ReceiverName)
	view.DestinationAddress = orNotAvailable(s.ReceiverAddress)
	view.ServiceType = orNotAvailable(s.PackageType)
	if eta, ok := domain.ParseTimestamp(s.EstimatedDelivery); ok {
		view.EstimatedDelivery = &eta
	}
	return view
}

// sortHistory returns a copy of history ordered by timestamp ascending. The
// sort is stable so entries with equal or missing timestamps keep the
// backend's relative order.
func sortHistory(history []domain.StatusLogEntry) []domain.StatusLogEntry {
	sorted := slices.Clone(history)
	slices.SortStableFunc(sorted, func(a, b domain.StatusLogEntry) int {
		ka, kb := sortKey(a.Timestamp), sortKey(b.Timestamp)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
	return sorted
}

// latestHistoryLocation scans sorted history from the newest entry backward
// and returns the first non-empty location.
func latestHistoryLocation(history []domain.StatusLogEntry) string {
	for i := len(history) - 1; i >= 0; i-- {
		if loc := strings.TrimSpace(history[i].Location); loc != "" {
			return loc
		}
	}
	return ""
}

// latestTimelineLocation is latestHistoryLocation over the mapped timeline,
// where missing locations read "N/A".
func latestTimelineLocation(timeline []domain.TimelineEntry) string {
	for i := len(timeline) - 1; i >= 0; i-- {
		if loc := strings.TrimSpace(timeline[i].Location); loc != "" && loc != domain.NotAvailable {
			return loc
		}
	}
	return ""
}

func orNotAvailable(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return domain.NotAvailable
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
