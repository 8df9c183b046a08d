package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/inkpress/inkpress/domain"
	"github.com/inkpress/inkpress/internal/repository/cache"
)

const (
	KeyArticle = "article:slug:%s"
	KeyHome    = "article:feed:home:%d"
)

// physicalPadding keeps the redis key alive past its logical expiry so a
// stale value can still be served while the rebuild runs.
const physicalPadding = 10 * time.Minute

type articleCache struct {
	client *redis.Client
}

var _ domain.ArticleCache = (*articleCache)(nil)

func NewArticleCache(client *redis.Client) *articleCache {
	return &articleCache{
		client,
	}
}

func (c *articleCache) GetArticle(ctx context.Context, slug string) (res domain.Article, expired bool, err error) {
	key := fmt.Sprintf(KeyArticle, slug)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Article{}, false, domain.ErrCacheMiss
	} else if err != nil {
		return domain.Article{}, false, err
	}

	expired, err = cache.Unwrap(data, &res)
	if err != nil {
		return domain.Article{}, false, err
	}
	return res, expired, nil
}

func (c *articleCache) SetArticle(ctx context.Context, ar *domain.Article, ttl time.Duration) error {
	data, err := cache.Wrap(ar, ttl)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(KeyArticle, ar.Slug)
	return c.client.Set(ctx, key, data, ttl+physicalPadding).Err()
}

func (c *articleCache) DeleteArticle(ctx context.Context, slug string) error {
	key := fmt.Sprintf(KeyArticle, slug)
	return c.client.Del(ctx, key).Err()
}

func (c *articleCache) GetHome(ctx context.Context, limit int) ([]domain.Article, bool, error) {
	key := fmt.Sprintf(KeyHome, limit)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, domain.ErrCacheMiss
	} else if err != nil {
		return nil, false, err
	}

	var res []domain.Article
	expired, err := cache.Unwrap(data, &res)
	if err != nil {
		return nil, false, err
	}
	return res, expired, nil
}

func (c *articleCache) SetHome(ctx context.Context, articles []domain.Article, limit int, ttl time.Duration) error {
	data, err := cache.Wrap(articles, ttl)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(KeyHome, limit)
	return c.client.Set(ctx, key, data, ttl+physicalPadding).Err()
}

func (c *articleCache) DeleteHome(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "article:feed:home:*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
