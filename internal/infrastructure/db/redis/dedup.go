package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultDedupTTL = 10 * time.Minute

// StatusDedup remembers recently applied status changes so a resubmitted
// form does not append a second identical history entry.
// Key format: status-dedup:<TRACKING>:<status>:<location>
type StatusDedup struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStatusDedup wraps client. Marks expire after ttl (defaultDedupTTL when
// ttl <= 0).
func NewStatusDedup(client *redis.Client, ttl time.Duration) *StatusDedup {
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &StatusDedup{client: client, ttl: ttl}
}

// IsDuplicate reports whether this exact change was applied within the window.
func (d *StatusDedup) IsDuplicate(ctx context.Context, trackingNumber, status, location string) (bool, error) {
	n, err := d.client.Exists(ctx, dedupKey(trackingNumber, status, location)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that the change has been applied.
func (d *StatusDedup) Mark(ctx context.Context, trackingNumber, status, location string) error {
	if err := d.client.Set(ctx, dedupKey(trackingNumber, status, location), "1", d.ttl).Err(); err != nil {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}

// dedupKey normalises the parts so that case and padding differences from the
// form do not defeat the check.
func dedupKey(trackingNumber, status, location string) string {
	return fmt.Sprintf("status-dedup:%s:%s:%s",
		strings.ToUpper(strings.TrimSpace(trackingNumber)),
		strings.ToLower(strings.TrimSpace(status)),
		strings.ToLower(strings.TrimSpace(location)),
	)
}
