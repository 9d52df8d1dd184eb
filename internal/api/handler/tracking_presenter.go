package handler

import (
	"strings"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// Banner tones understood by the front-end.
const (
	toneSuccess = "success"
	toneDanger  = "danger"
	toneInfo    = "info"
)

// Timeline markers.
const (
	markerCompleted = "completed"
	markerCurrent   = "current"
	markerPending   = "pending"
)

const (
	displayDate = "Jan 02, 2006"
	displayTime = "03:04 PM"
)

type statusBanner struct {
	Status   string `json:"status"`
	Tone     string `json:"tone"`
	Headline string `json:"headline"`
}

type timelineEventResponse struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Completed   bool   `json:"completed"`
	Marker      string `json:"marker"`
	Coordinates string `json:"coordinates,omitempty"`
	Note        string `json:"note,omitempty"`
}

type trackingResponse struct {
	TrackingID         string                  `json:"tracking_id"`
	Banner             statusBanner            `json:"banner"`
	Status             string                  `json:"status"`
	EstimatedDelivery  string                  `json:"estimated_delivery"`
	CurrentLocation    string                  `json:"current_location"`
	RecipientName      string                  `json:"recipient_name"`
	DestinationAddress string                  `json:"destination_address"`
	ServiceType        string                  `json:"service_type"`
	Timeline           []timelineEventResponse `json:"timeline"`
}

// presentTracking maps a resolved view to what the tracking page renders.
func presentTracking(v *domain.TrackingView) trackingResponse {
	eta := domain.NotAvailable
	if v.EstimatedDelivery != nil && !v.EstimatedDelivery.IsZero() {
		eta = v.EstimatedDelivery.Format(displayDate)
	}

	return trackingResponse{
		TrackingID:         v.TrackingID,
		Banner:             banner(v.Status),
		Status:             v.Status,
		EstimatedDelivery:  eta,
		CurrentLocation:    v.CurrentLocation,
		RecipientName:      v.RecipientName,
		DestinationAddress: v.DestinationAddress,
		ServiceType:        v.ServiceType,
		Timeline:           presentTimeline(v.Timeline),
	}
}

func banner(status string) statusBanner {
	b := statusBanner{Status: status, Tone: toneInfo}
	switch {
	case domain.StatusIs(status, domain.StatusDelivered):
		b.Tone = toneSuccess
		b.Headline = "Your package has been delivered"
	case domain.StatusIs(status, domain.StatusDelayed):
		b.Tone = toneDanger
		b.Headline = "Your package is delayed"
	case domain.StatusIs(status, domain.StatusCancelled):
		b.Tone = toneDanger
		b.Headline = "This shipment was cancelled"
	case domain.StatusIs(status, domain.StatusOutForDelivery):
		b.Headline = "Your package is out for delivery"
	case domain.StatusIs(status, domain.StatusRegistered):
		b.Headline = "Shipment registered, awaiting pickup"
	default:
		b.Headline = "Shipment status: " + strings.TrimSpace(status)
	}
	return b
}

// presentTimeline reformats each entry's raw timestamp and assigns markers:
// completed entries, then the first open entry as current, the rest pending.
func presentTimeline(entries []domain.TimelineEntry) []timelineEventResponse {
	out := make([]timelineEventResponse, 0, len(entries))
	currentSet := false
	for _, e := range entries {
		date, clock := splitTimestamp(e.Date, e.Time)

		marker := markerCompleted
		if !e.Completed {
			marker = markerPending
			if !currentSet {
				marker = markerCurrent
				currentSet = true
			}
		}

		out = append(out, timelineEventResponse{
			Status:      e.Status,
			Location:    e.Location,
			Date:        date,
			Time:        clock,
			Completed:   e.Completed,
			Marker:      marker,
			Coordinates: e.Coordinates,
			Note:        e.Note,
		})
	}
	return out
}

// splitTimestamp turns the raw timestamp into display date and time. Text
// that does not parse is shown as is with whatever time was already set.
func splitTimestamp(raw, existingTime string) (string, string) {
	t, ok := domain.ParseTimestamp(raw)
	if !ok {
		return raw, existingTime
	}
	if hasClock(raw) {
		return t.Format(displayDate), t.Format(displayTime)
	}
	return t.Format(displayDate), existingTime
}

// hasClock reports whether a parsed timestamp carried a time of day.
func hasClock(raw string) bool {
	return strings.Contains(raw, ":")
}
