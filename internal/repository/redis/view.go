package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkpress/inkpress/domain"
)

const (
	KeyViewSeen = "view:%s"
)

// viewCache stores the per-fingerprint dedup tokens for article views.
type viewCache struct {
	client *redis.Client
}

var _ domain.ViewCache = (*viewCache)(nil)

func NewViewCache(client *redis.Client) *viewCache {
	return &viewCache{
		client,
	}
}

func (c *viewCache) Seen(ctx context.Context, fingerprint string) (bool, error) {
	key := fmt.Sprintf(KeyViewSeen, fingerprint)
	_, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *viewCache) MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) error {
	key := fmt.Sprintf(KeyViewSeen, fingerprint)
	return c.client.SetEx(ctx, key, "1", ttl).Err()
}
