package ports

import (
	"context"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// ShipmentSnapshot is the shipment-details payload after the gateway has
// reconciled the backend's envelope variants ({shipment}, {data} or bare).
// Empty strings mean the field was absent.
type ShipmentSnapshot struct {
	TrackingNumber    string
	Status            string
	CurrentLocation   string
	SenderName        string
	SenderAddress     string
	ReceiverName      string
	ReceiverAddress   string
	PackageType       string
	EstimatedDelivery string
	CreatedAt         string
}

// StatusPayload is the status-history payload. HasHistory reports whether the
// backend sent a history array at all, even an empty one.
type StatusPayload struct {
	Success         bool
	HasHistory      bool
	History         []domain.StatusLogEntry
	Status          string
	Location        string
	CurrentLocation string
	Timestamp       string
}

// FlatShipment is one element of the admin "all shipments" listing.
type FlatShipment struct {
	TrackingNumber     string
	SenderName         string
	SenderEmail        string
	SenderPhone        string
	SenderAddress      string
	ReceiverName       string
	ReceiverEmail      string
	ReceiverPhone      string
	ReceiverAddress    string
	PackageType        string
	Weight             float64
	WeightUnit         string
	Cost               float64
	Status             string
	CreatedAt          string
	EstimatedDelivery  string
	OriginCountry      string
	DestinationCountry string
	PDFURL             string
	QRCodeURL          string
	CurrentLocation    string
}

// PartyInput is a nested sender/receiver object.
type PartyInput struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// NestedShipment is one element of the end-user "recent shipments" listing.
type NestedShipment struct {
	TrackingNumber     string
	Sender             PartyInput
	Receiver           PartyInput
	PackageType        string
	Weight             float64
	WeightUnit         string
	Cost               float64
	Status             string
	CreatedAt          string
	EstimatedDelivery  string
	OriginCountry      string
	DestinationCountry string
	PDFURL             string
	QRCodeURL          string
	CurrentLocation    string
}

// CreateShipmentInput carries the data the backend needs to register a shipment.
type CreateShipmentInput struct {
	Sender             PartyInput
	Receiver           PartyInput
	PackageType        string
	Weight             float64
	WeightUnit         string
	Cost               float64
	OriginCountry      string
	DestinationCountry string
	EstimatedDelivery  string
}

// StatusUpdateInput carries an admin status change.
type StatusUpdateInput struct {
	Status      string
	Location    string
	Coordinates string
	Note        string
}

// MutationResult mirrors the backend's {success, error} envelope.
// Duplicate is set when the portal skipped a repeated submission;
// Unavailable when the backend could not be reached at all.
type MutationResult struct {
	Success        bool   `json:"success"`
	Error          string `json:"error,omitempty"`
	TrackingNumber string `json:"tracking_number,omitempty"`
	Duplicate      bool   `json:"duplicate,omitempty"`
	Unavailable    bool   `json:"-"`
}

// TrackingGateway is the part of the backend the tracking resolver reads.
type TrackingGateway interface {
	ShipmentByTracking(ctx context.Context, trackingID string) (*ShipmentSnapshot, error)
	ShipmentStatus(ctx context.Context, trackingID string) (*StatusPayload, error)
}

// ShipmentGateway is the part of the backend the shipment repository uses.
type ShipmentGateway interface {
	AllShipments(ctx context.Context) ([]FlatShipment, error)
	RecentShipments(ctx context.Context, email string) ([]NestedShipment, error)
	CreateShipment(ctx context.Context, input CreateShipmentInput) (*MutationResult, error)
	UpdateStatus(ctx context.Context, trackingID string, input StatusUpdateInput) (*MutationResult, error)
}

// BackendGateway is the full external backend contract.
type BackendGateway interface {
	TrackingGateway
	ShipmentGateway
	Ping(ctx context.Context) error
}
