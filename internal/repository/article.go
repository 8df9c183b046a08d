package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/inkpress/inkpress/domain"
)

const (
	articleCacheTTL = 10 * time.Minute
	homeCacheTTL    = 30 * time.Second
)

// articleRepository 协调层，协调缓存和数据库
type articleRepository struct {
	db            domain.ArticleRepository
	cache         domain.ArticleCache
	rebuildGroup  singleflight.Group
	mu            sync.Mutex
	rebuildingMap map[string]bool // slugs with a rebuild in flight
}

var _ domain.ArticleRepository = (*articleRepository)(nil)

// NewArticleRepository 创建协调层repository
func NewArticleRepository(db domain.ArticleRepository, cache domain.ArticleCache) *articleRepository {
	return &articleRepository{
		db:            db,
		cache:         cache,
		rebuildingMap: make(map[string]bool),
	}
}

// FetchFeed serves the unfiltered first page from cache when it can;
// everything else goes straight to the database.
func (r *articleRepository) FetchFeed(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
	cacheable := offset == 0 && filter.IsHome()
	if cacheable {
		articles, expired, err := r.cache.GetHome(ctx, limit)
		if err == nil {
			if expired {
				go r.rebuildHomeCache(context.Background(), limit)
			}
			return articles, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			logrus.Warnf("home feed cache get error: %v", err)
		}
	}

	articles, err := r.db.FetchFeed(ctx, filter, offset, limit)
	if err != nil {
		return nil, err
	}

	if cacheable {
		go func(data []domain.Article, limit int) {
			if err := r.cache.SetHome(context.Background(), data, limit, homeCacheTTL); err != nil {
				logrus.Warnf("failed to set home feed cache: %v", err)
			}
		}(articles, limit)
	}

	return articles, nil
}

// GetBySlug 根据slug获取文章，使用逻辑过期策略避免缓存击穿
func (r *articleRepository) GetBySlug(ctx context.Context, slug string) (domain.Article, error) {
	article, expired, err := r.cache.GetArticle(ctx, slug)
	if err == nil {
		if expired {
			go r.rebuildArticleCache(context.Background(), slug)
		}
		return article, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("article cache get error: %v", err)
	}

	// 缓存未命中，使用singleflight避免缓存击穿
	result, err, _ := r.rebuildGroup.Do("article:"+slug, func() (interface{}, error) {
		art, err := r.db.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		_ = r.cache.SetArticle(context.Background(), &art, articleCacheTTL)
		return art, nil
	})
	if err != nil {
		return domain.Article{}, err
	}
	return result.(domain.Article), nil
}

func (r *articleRepository) GetByID(ctx context.Context, id int64) (domain.Article, error) {
	return r.db.GetByID(ctx, id)
}

func (r *articleRepository) CountByTag(ctx context.Context, tag string) (int64, error) {
	return r.db.CountByTag(ctx, tag)
}

func (r *articleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	return r.db.SlugExists(ctx, slug)
}

func (r *articleRepository) Store(ctx context.Context, a *domain.Article) error {
	if err := r.db.Store(ctx, a); err != nil {
		return err
	}
	go r.invalidateHome()
	return nil
}

func (r *articleRepository) Update(ctx context.Context, a *domain.Article) error {
	// The slug may change with the title, so look up the old one for
	// cache invalidation before writing.
	oldSlug := ""
	if existing, err := r.db.GetByID(ctx, a.ID); err == nil {
		oldSlug = existing.Slug
	}

	if err := r.db.Update(ctx, a); err != nil {
		return err
	}

	go func(slugs ...string) {
		for _, s := range slugs {
			if s == "" {
				continue
			}
			if err := r.cache.DeleteArticle(context.Background(), s); err != nil {
				logrus.Warnf("failed to invalidate article cache for %q: %v", s, err)
			}
		}
	}(a.Slug, oldSlug)
	go r.invalidateHome()
	return nil
}

func (r *articleRepository) Delete(ctx context.Context, id int64) error {
	slug := ""
	if existing, err := r.db.GetByID(ctx, id); err == nil {
		slug = existing.Slug
	}

	if err := r.db.Delete(ctx, id); err != nil {
		return err
	}

	if slug != "" {
		go func(slug string) {
			_ = r.cache.DeleteArticle(context.Background(), slug)
		}(slug)
	}
	go r.invalidateHome()
	return nil
}

// AddViews passes through; the cached detail page may lag behind the
// counter until its logical expiry. The caller gets the fresh count.
func (r *articleRepository) AddViews(ctx context.Context, id int64, deltaViews int64) (int64, error) {
	return r.db.AddViews(ctx, id, deltaViews)
}

func (r *articleRepository) Like(ctx context.Context, userID, articleID int64) (int64, error) {
	likes, err := r.db.Like(ctx, userID, articleID)
	if err != nil {
		return 0, err
	}
	go r.invalidateByID(articleID)
	return likes, nil
}

func (r *articleRepository) Unlike(ctx context.Context, userID, articleID int64) (int64, error) {
	likes, err := r.db.Unlike(ctx, userID, articleID)
	if err != nil {
		return 0, err
	}
	go r.invalidateByID(articleID)
	return likes, nil
}

func (r *articleRepository) IsLiked(ctx context.Context, userID, articleID int64) (bool, error) {
	return r.db.IsLiked(ctx, userID, articleID)
}

func (r *articleRepository) FetchSlugs(ctx context.Context, cursor, limit int64) ([]string, int64, error) {
	return r.db.FetchSlugs(ctx, cursor, limit)
}

func (r *articleRepository) invalidateHome() {
	if err := r.cache.DeleteHome(context.Background()); err != nil {
		logrus.Warnf("failed to invalidate home feed cache: %v", err)
	}
}

func (r *articleRepository) invalidateByID(articleID int64) {
	art, err := r.db.GetByID(context.Background(), articleID)
	if err != nil {
		return
	}
	if err := r.cache.DeleteArticle(context.Background(), art.Slug); err != nil {
		logrus.Warnf("failed to invalidate article cache for %q: %v", art.Slug, err)
	}
}

// rebuildHomeCache 异步重建首页缓存
func (r *articleRepository) rebuildHomeCache(ctx context.Context, limit int) {
	_, err, _ := r.rebuildGroup.Do("home", func() (any, error) {
		articles, err := r.db.FetchFeed(ctx, domain.FeedFilter{}, 0, limit)
		if err != nil {
			logrus.Errorf("failed to rebuild home feed cache from db: %v", err)
			return nil, err
		}
		if err := r.cache.SetHome(ctx, articles, limit, homeCacheTTL); err != nil {
			logrus.Errorf("failed to set home feed cache: %v", err)
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		logrus.Errorf("rebuildHomeCache failed: %v", err)
	}
}

// rebuildArticleCache 异步重建文章缓存
func (r *articleRepository) rebuildArticleCache(ctx context.Context, slug string) {
	r.mu.Lock()
	if r.rebuildingMap[slug] {
		r.mu.Unlock()
		return
	}
	r.rebuildingMap[slug] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.rebuildingMap, slug)
		r.mu.Unlock()
	}()

	_, err, _ := r.rebuildGroup.Do("rebuild:"+slug, func() (any, error) {
		article, err := r.db.GetBySlug(ctx, slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// 文章不存在，删除缓存
				_ = r.cache.DeleteArticle(ctx, slug)
			}
			return nil, err
		}
		if err := r.cache.SetArticle(ctx, &article, articleCacheTTL); err != nil {
			logrus.Errorf("failed to set article cache: %v", err)
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		logrus.Errorf("rebuildArticleCache failed for slug %q: %v", slug, err)
	}
}
