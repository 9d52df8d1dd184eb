package service

import (
	"strings"
	"time"

	"github.com/dmlogistics/portal/internal/core/domain"
	"github.com/dmlogistics/portal/internal/core/ports"
)

// defaultListStatus is used by both listing shapes when the backend omits a
// status.
const defaultListStatus = domain.StatusRegistered

// mapFlatShipment converts the admin listing shape.
func mapFlatShipment(f ports.FlatShipment) domain.ShipmentRecord {
	return domain.ShipmentRecord{
		TrackingNumber: strings.TrimSpace(f.TrackingNumber),
		Sender: domain.Party{
			Name:    f.SenderName,
			Email:   f.SenderEmail,
			Phone:   f.SenderPhone,
			Address: f.SenderAddress,
		},
		Receiver: domain.Party{
			Name:    f.ReceiverName,
			Email:   f.ReceiverEmail,
			Phone:   f.ReceiverPhone,
			Address: f.ReceiverAddress,
		},
		Package: domain.Package{
			Type:       f.PackageType,
			Weight:     f.Weight,
			WeightUnit: f.WeightUnit,
		},
		Cost:               f.Cost,
		Status:             statusOrDefault(f.Status),
		RegisteredAt:       parseOrZero(f.CreatedAt),
		EstimatedDelivery:  parseOptional(f.EstimatedDelivery),
		OriginCountry:      f.OriginCountry,
		DestinationCountry: f.DestinationCountry,
		PDFURL:             f.PDFURL,
		QRCodeURL:          f.QRCodeURL,
		CurrentLocation:    f.CurrentLocation,
	}
}

// mapNestedShipment converts the end-user listing shape.
func mapNestedShipment(n ports.NestedShipment) domain.ShipmentRecord {
	return domain.ShipmentRecord{
		TrackingNumber: strings.TrimSpace(n.TrackingNumber),
		Sender:         toParty(n.Sender),
		Receiver:       toParty(n.Receiver),
		Package: domain.Package{
			Type:       n.PackageType,
			Weight:     n.Weight,
			WeightUnit: n.WeightUnit,
		},
		Cost:               n.Cost,
		Status:             statusOrDefault(n.Status),
		RegisteredAt:       parseOrZero(n.CreatedAt),
		EstimatedDelivery:  parseOptional(n.EstimatedDelivery),
		OriginCountry:      n.OriginCountry,
		DestinationCountry: n.DestinationCountry,
		PDFURL:             n.PDFURL,
		QRCodeURL:          n.QRCodeURL,
		CurrentLocation:    n.CurrentLocation,
	}
}

func toParty(p ports.PartyInput) domain.Party {
	return domain.Party{Name: p.Name, Email: p.Email, Phone: p.Phone, Address: p.Address}
}

func statusOrDefault(status string) string {
	if s := strings.TrimSpace(status); s != "" {
		return s
	}
	return defaultListStatus
}

func parseOrZero(raw string) time.Time {
	t, _ := domain.ParseTimestamp(raw)
	return t
}

func parseOptional(raw string) *time.Time {
	t, ok := domain.ParseTimestamp(raw)
	if !ok {
		return nil
	}
	return &t
}
