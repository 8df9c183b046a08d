package domain

import (
	"context"
	"time"
)

// ArticleStatus is the publication state of an article.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "DRAFT"
	StatusPublished ArticleStatus = "PUBLISHED"
)

// Article is representing the Article data struct
type Article struct {
	ID          int64         // Unique identifier for the article
	Slug        string        // URL-safe unique identifier, derived from the title
	Title       string        // Article title
	Body        string        // Article body content (markdown)
	Status      ArticleStatus // DRAFT or PUBLISHED
	PublishedAt *time.Time    // Set exactly once on the DRAFT -> PUBLISHED transition
	Author      User          // Author information
	Tags        []string      // Tag names attached to the article
	Views       int64         // Number of views, monotonically non-decreasing
	Likes       int64         // Number of likes, equals the count of like rows
	UpdatedAt   time.Time     // Last update timestamp
	CreatedAt   time.Time     // Creation timestamp
}

// Published reports whether the article is visible in public feeds.
func (a *Article) Published() bool {
	return a.Status == StatusPublished && a.PublishedAt != nil
}

// ArticleRepository defines the contract for article data persistence
type ArticleRepository interface {
	// FetchFeed retrieves articles matching filter, ordered for pagination:
	// published_at DESC with id DESC as the tie-breaker (created_at DESC
	// when drafts are included). offset/limit implement the page window.
	FetchFeed(ctx context.Context, filter FeedFilter, offset, limit int) ([]Article, error)

	// CountByTag returns the number of published articles carrying the tag.
	CountByTag(ctx context.Context, tag string) (int64, error)

	// GetBySlug retrieves a single article by its slug.
	// Returns ErrNotFound if the article doesn't exist.
	GetBySlug(ctx context.Context, slug string) (Article, error)

	// GetByID retrieves a single article by its ID.
	// Returns ErrNotFound if the article doesn't exist.
	GetByID(ctx context.Context, id int64) (Article, error)

	// SlugExists reports whether any article already uses the given slug.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Store creates a new article together with its tag associations.
	// Returns ErrConflict if the slug is already taken.
	Store(ctx context.Context, a *Article) error

	// Update modifies an existing article and replaces its tag associations.
	// Returns ErrNotFound if the article doesn't exist.
	Update(ctx context.Context, a *Article) error

	// Delete removes an article by its ID.
	// Returns ErrNotFound if not exists
	Delete(ctx context.Context, id int64) error

	// AddViews atomically increments the view count and returns the new value.
	AddViews(ctx context.Context, id int64, deltaViews int64) (int64, error)

	// Like inserts a like row for (userID, articleID) and increments the
	// counter as a single atomic unit. Returns the post-increment count.
	// Returns ErrAlreadyLiked when the row already exists.
	Like(ctx context.Context, userID, articleID int64) (int64, error)

	// Unlike removes the like row and decrements the counter atomically.
	// Returns the post-decrement count, or ErrNotLiked when no row exists.
	Unlike(ctx context.Context, userID, articleID int64) (int64, error)

	// IsLiked reports whether the user has an active like on the article.
	IsLiked(ctx context.Context, userID, articleID int64) (bool, error)

	// FetchSlugs pages over all article slugs ordered by id, starting after
	// cursor. Returns the slugs and the id to use as the next cursor.
	FetchSlugs(ctx context.Context, cursor, limit int64) ([]string, int64, error)
}

// ArticleCache caches single articles and the first feed page.
// Entries carry a logical expiry: a hit past its expiry is still returned
// so the caller can serve it while a rebuild runs in the background.
type ArticleCache interface {
	GetArticle(ctx context.Context, slug string) (res Article, expired bool, err error)
	SetArticle(ctx context.Context, ar *Article, ttl time.Duration) error
	DeleteArticle(ctx context.Context, slug string) error

	GetHome(ctx context.Context, limit int) ([]Article, bool, error)
	SetHome(ctx context.Context, articles []Article, limit int, ttl time.Duration) error
	DeleteHome(ctx context.Context) error
}

type ArticleUsecase interface {
	Feed(ctx context.Context, page, size int) ([]Article, bool, error)
	Search(ctx context.Context, query string, page, size int) ([]Article, bool, error)
	FeedOfTag(ctx context.Context, tag string, page, size int) ([]Article, bool, int64, error)
	FeedOfAuthor(ctx context.Context, username string, viewerID int64, page, size int) ([]Article, bool, error)

	// GetBySlug returns the article and whether viewerID has liked it.
	// viewerID 0 means anonymous.
	GetBySlug(ctx context.Context, slug string, viewerID int64) (Article, bool, error)

	Store(ctx context.Context, ar *Article) error
	Update(ctx context.Context, viewerID int64, ar *Article) error
	Delete(ctx context.Context, viewerID int64, slug string) error
	TogglePublish(ctx context.Context, viewerID int64, slug string) (Article, error)

	Like(ctx context.Context, userID int64, slug string) (int64, error)
	Unlike(ctx context.Context, userID int64, slug string) (int64, error)

	// RecordView counts a view at most once per fingerprint window.
	RecordView(ctx context.Context, slug, ip, userAgent string) (bool, int64, error)

	// WarmSlugFilter loads all existing slugs into the bloom filter.
	WarmSlugFilter(ctx context.Context) error
}
