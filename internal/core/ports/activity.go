package ports

import (
	"context"

	"github.com/dmlogistics/portal/internal/core/domain"
)

// ActivityRepository persists the back-office activity log.
type ActivityRepository interface {
	Insert(ctx context.Context, entry domain.ActivityEntry) error
	ListRecent(ctx context.Context, limit int) ([]domain.ActivityEntry, error)
}

// ActivityRecorder accepts activity entries for asynchronous persistence.
type ActivityRecorder interface {
	Record(entry domain.ActivityEntry)
}
