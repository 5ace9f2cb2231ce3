package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 90 * 24 * time.Hour

// DedupChecker provides report idempotency checks backed by Redis.
// Key format: report:<project_id>:<period>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether a report for this (project, period) pair has
// already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, projectID, period string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(projectID, period)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this report has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, projectID, period string) error {
	return d.client.Set(ctx, d.key(projectID, period), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(projectID, period string) string {
	return fmt.Sprintf("report:%s:%s", projectID, period)
}
