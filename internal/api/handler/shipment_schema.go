package handler

import (
	"time"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type partyRequest struct {
	Name    string `json:"name"    validate:"required,max=120"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Phone   string `json:"phone"   validate:"max=40"`
	Address string `json:"address" validate:"required,max=300"`
}

type createShipmentRequest struct {
	Sender             partyRequest `json:"sender"              validate:"required"`
	Receiver           partyRequest `json:"receiver"            validate:"required"`
	PackageType        string       `json:"package_type"        validate:"required,max=60"`
	Weight             float64      `json:"weight"              validate:"gt=0"`
	WeightUnit         string       `json:"weight_unit"         validate:"omitempty,oneof=kg lb"`
	Cost               float64      `json:"cost"                validate:"gte=0"`
	OriginCountry      string       `json:"origin_country"      validate:"max=60"`
	DestinationCountry string       `json:"destination_country" validate:"max=60"`
	EstimatedDelivery  string       `json:"estimated_delivery"  validate:"omitempty,datetime=2006-01-02"`
}

type updateStatusRequest struct {
	Status      string `json:"status"      validate:"required,max=60"`
	Location    string `json:"location"    validate:"max=200"`
	Coordinates string `json:"coordinates" validate:"max=60"`
	Note        string `json:"note"        validate:"max=500"`
}

type partyResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type shipmentLinks struct {
	Self     string `json:"self"`
	Tracking string `json:"tracking"`
	Receipt  string `json:"receipt"`
}

type shipmentResponse struct {
	TrackingNumber     string        `json:"tracking_number"`
	Status             string        `json:"status"`
	Sender             partyResponse `json:"sender"`
	Receiver           partyResponse `json:"receiver"`
	PackageType        string        `json:"package_type"`
	Weight             float64       `json:"weight"`
	WeightUnit         string        `json:"weight_unit"`
	Cost               float64       `json:"cost"`
	RegisteredAt       *time.Time    `json:"registered_at,omitempty"`
	EstimatedDelivery  *time.Time    `json:"estimated_delivery,omitempty"`
	OriginCountry      string        `json:"origin_country,omitempty"`
	DestinationCountry string        `json:"destination_country,omitempty"`
	CurrentLocation    string        `json:"current_location,omitempty"`
	PDFURL             string        `json:"pdf_url,omitempty"`
	QRCodeURL          string        `json:"qr_code_url,omitempty"`
	Links              shipmentLinks `json:"_links"`
}

type listShipmentsResponse struct {
	Data  []shipmentResponse `json:"data"`
	Total int                `json:"total"`
	Scope string             `json:"scope"`
}

type mutationResponse struct {
	Success        bool           `json:"success"`
	TrackingNumber string         `json:"tracking_number,omitempty"`
	Duplicate      bool           `json:"duplicate,omitempty"`
	Links          *shipmentLinks `json:"_links,omitempty"`
}

type activityResponse struct {
	Data  []domain.ActivityEntry `json:"data"`
	Count int                    `json:"count"`
}
