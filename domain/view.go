package domain

import (
	"context"
	"time"
)

const (
	// ViewWindow is how long a fingerprint stays "already counted".
	ViewWindow = 24 * time.Hour
)

// ViewCache holds the dedup tokens for article views. A token's presence
// means "this fingerprint was counted inside the current window"; it is
// not a request counter. Distinct users behind the same network identifier
// and agent string collide, which undercounts — accepted.
type ViewCache interface {
	// Seen reports whether the fingerprint was already counted.
	Seen(ctx context.Context, fingerprint string) (bool, error)

	// MarkSeen stores the dedup token with the given expiry.
	MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) error
}
