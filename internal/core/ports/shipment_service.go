package ports

import (
	"context"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// ShipmentService hides the backend's two listing shapes behind one record type.
// ListShipments never fails: backend errors degrade to an empty list.
type ShipmentService interface {
	ListShipments(ctx context.Context, actor domain.Actor) []domain.ShipmentRecord
	GetShipment(ctx context.Context, actor domain.Actor, trackingNumber string) (*domain.ShipmentRecord, error)
	CreateShipment(ctx context.Context, actor domain.Actor, input CreateShipmentInput) MutationResult
	UpdateStatus(ctx context.Context, actor domain.Actor, trackingNumber string, input StatusUpdateInput) MutationResult
	RecordReceipt(actor domain.Actor, trackingNumber string)
}

// ReceiptGenerator renders a shipment as a PDF document.
type ReceiptGenerator interface {
	Generate(shipment domain.ShipmentRecord) ([]byte, error)
}
