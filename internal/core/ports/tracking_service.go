package ports

import (
	"context"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// TrackingResolver turns a free-text tracking identifier into a reconciled view.
type TrackingResolver interface {
	Resolve(ctx context.Context, rawID string) (*domain.TrackingView, error)
}
