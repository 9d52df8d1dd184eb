package handler

import (
	"strings"
	"time"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createShipmentRequest) ports.CreateShipmentInput {
	return ports.CreateShipmentInput{
		Sender:             toPartyInput(req.Sender),
		Receiver:           toPartyInput(req.Receiver),
		PackageType:        strings.TrimSpace(req.PackageType),
		Weight:             req.Weight,
		WeightUnit:         req.WeightUnit,
		Cost:               req.Cost,
		OriginCountry:      strings.TrimSpace(req.OriginCountry),
		DestinationCountry: strings.TrimSpace(req.DestinationCountry),
		EstimatedDelivery:  req.EstimatedDelivery,
	}
}

func toPartyInput(p partyRequest) ports.PartyInput {
	return ports.PartyInput{
		Name:    strings.TrimSpace(p.Name),
		Email:   strings.TrimSpace(p.Email),
		Phone:   strings.TrimSpace(p.Phone),
		Address: strings.TrimSpace(p.Address),
	}
}

func toStatusInput(req updateStatusRequest) ports.StatusUpdateInput {
	return ports.StatusUpdateInput{
		Status:      strings.TrimSpace(req.Status),
		Location:    strings.TrimSpace(req.Location),
		Coordinates: strings.TrimSpace(req.Coordinates),
		Note:        strings.TrimSpace(req.Note),
	}
}

// --- Service result → HTTP response ---

func linksFor(trackingNumber string) shipmentLinks {
	return shipmentLinks{
		Self:     "/v1/shipments/" + trackingNumber,
		Tracking: "/v1/tracking/" + trackingNumber,
		Receipt:  "/v1/shipments/" + trackingNumber + "/receipt",
	}
}

func toShipmentResponse(r domain.ShipmentRecord) shipmentResponse {
	return shipmentResponse{
		TrackingNumber:     r.TrackingNumber,
		Status:             r.Status,
		Sender:             partyResponse(r.Sender),
		Receiver:           partyResponse(r.Receiver),
		PackageType:        r.Package.Type,
		Weight:             r.Package.Weight,
		WeightUnit:         r.Package.WeightUnit,
		Cost:               r.Cost,
		RegisteredAt:       nonZeroUTC(r.RegisteredAt),
		EstimatedDelivery:  r.EstimatedDelivery,
		OriginCountry:      r.OriginCountry,
		DestinationCountry: r.DestinationCountry,
		CurrentLocation:    r.CurrentLocation,
		PDFURL:             r.PDFURL,
		QRCodeURL:          r.QRCodeURL,
		Links:              linksFor(r.TrackingNumber),
	}
}

func toMutationResponse(r ports.MutationResult) mutationResponse {
	resp := mutationResponse{
		Success:        r.Success,
		TrackingNumber: r.TrackingNumber,
		Duplicate:      r.Duplicate,
	}
	if r.TrackingNumber != "" {
		links := linksFor(r.TrackingNumber)
		resp.Links = &links
	}
	return resp
}

func nonZeroUTC(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}
