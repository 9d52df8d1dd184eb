package domain

import "time"

// Activity actions recorded in the back-office log.
const (
	ActivityShipmentCreated  = "shipment_created"
	ActivityStatusUpdated    = "status_updated"
	ActivityReceiptGenerated = "receipt_generated"
)

// ActivityEntry is one line of the admin activity log.
type ActivityEntry struct {
	Action         string    `json:"action" bson:"action"`
	TrackingNumber string    `json:"tracking_number" bson:"tracking_number"`
	ActorEmail     string    `json:"actor_email" bson:"actor_email"`
	ActorRole      string    `json:"actor_role" bson:"actor_role"`
	Detail         string    `json:"detail,omitempty" bson:"detail,omitempty"`
	OccurredAt     time.Time `json:"occurred_at" bson:"occurred_at"`
}
