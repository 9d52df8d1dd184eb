package domain

import (
	"errors"
	"time"
)

const (
	// LocationNotSpecified is reported when no source carries a live location.
	LocationNotSpecified = "Location not specified"
	// NotAvailable fills empty text fields in timelines and receipts.
	NotAvailable = "N/A"
)

var (
	ErrMissingTrackingNumber = errors.New("missing tracking number")
	ErrTrackingNotFound      = errors.New("no tracking information found")
	ErrSupersededQuery       = errors.New("tracking query superseded by a newer one")
	// ErrTransport marks a single failed backend call. It never leaves the
	// resolver on its own; callers only see it wrapped in a gateway error.
	ErrTransport = errors.New("backend transport error")
)

// StatusLogEntry is one event of a shipment's status history. Timestamp keeps
// the backend's raw text; ordering is derived from it at resolve time.
type StatusLogEntry struct {
	Status      string `json:"status"`
	Timestamp   string `json:"timestamp"`
	Location    string `json:"location,omitempty"`
	Coordinates string `json:"coordinates,omitempty"`
	Note        string `json:"note,omitempty"`
}

// TimelineEntry is a renderer-ready history event.
type TimelineEntry struct {
	Status      string `json:"status"`
	Location    string `json:"location"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Completed   bool   `json:"completed"`
	Coordinates string `json:"coordinates,omitempty"`
	Note        string `json:"note,omitempty"`
}

// TrackingView is the reconciled projection of every tracking source for one
// shipment. It is computed per query and never stored.
type TrackingView struct {
	TrackingID         string          `json:"tracking_id"`
	Status             string          `json:"status"`
	EstimatedDelivery  *time.Time      `json:"estimated_delivery"`
	CurrentLocation    string          `json:"current_location"`
	RecipientName      string          `json:"recipient_name"`
	DestinationAddress string          `json:"destination_address"`
	ServiceType        string          `json:"service_type"`
	Timeline           []TimelineEntry `json:"timeline"`
}
