package domain

import (
	"errors"
	"strings"
	"time"
)

// Shipment statuses as the backend spells them. The set is open: the backend
// may send any other free-text status and it is carried through verbatim.
const (
	StatusRegistered     = "Registered"
	StatusInTransit      = "In Transit"
	StatusOutForDelivery = "Out for Delivery"
	StatusAtFacility     = "At Facility"
	StatusDelivered      = "Delivered"
	StatusDelayed        = "Delayed"
	StatusCancelled      = "Cancelled"
)

var ErrShipmentNotFound = errors.New("shipment not found")
var ErrForbidden = errors.New("access forbidden")
var ErrReceiptEncoding = errors.New("receipt encoding failed")

// StatusIs reports whether two status strings name the same status,
// ignoring case and surrounding whitespace.
func StatusIs(status, want string) bool {
	return strings.EqualFold(strings.TrimSpace(status), strings.TrimSpace(want))
}

// Party is a sender or receiver.
type Party struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Package describes what is being shipped.
type Package struct {
	Type       string  `json:"type"`
	Weight     float64 `json:"weight"`
	WeightUnit string  `json:"weight_unit"`
}

// ShipmentRecord is the canonical shipment entity. TrackingNumber is the join
// key across every subsystem and is compared case-insensitively.
type ShipmentRecord struct {
	TrackingNumber     string     `json:"tracking_number"`
	Sender             Party      `json:"sender"`
	Receiver           Party      `json:"receiver"`
	Package            Package    `json:"package"`
	Cost               float64    `json:"cost"`
	Status             string     `json:"status"`
	RegisteredAt       time.Time  `json:"registered_at"`
	EstimatedDelivery  *time.Time `json:"estimated_delivery,omitempty"`
	OriginCountry      string     `json:"origin_country,omitempty"`
	DestinationCountry string     `json:"destination_country,omitempty"`
	PDFURL             string     `json:"pdf_url,omitempty"`
	QRCodeURL          string     `json:"qr_code_url,omitempty"`
	CurrentLocation    string     `json:"current_location,omitempty"`
}

// SameTracking reports whether id refers to this shipment.
func (s ShipmentRecord) SameTracking(id string) bool {
	return strings.EqualFold(strings.TrimSpace(s.TrackingNumber), strings.TrimSpace(id))
}
