package article

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inkpress/inkpress/domain"
	"github.com/inkpress/inkpress/internal/repository"
)

const slugWarmupBatch = 500

type Service struct {
	articleRepo domain.ArticleRepository
	userRepo    domain.UserRepository
	viewCache   domain.ViewCache
	bloomRepo   domain.BloomRepository
}

var _ domain.ArticleUsecase = (*Service)(nil)

// NewService will create a new article service object
func NewService(a domain.ArticleRepository, u domain.UserRepository, vc domain.ViewCache, b domain.BloomRepository) *Service {
	return &Service{
		articleRepo: a,
		userRepo:    u,
		viewCache:   vc,
		bloomRepo:   b,
	}
}

// fetchPage requests one row beyond the page so "is there more" costs no
// COUNT query: pageSize+1 rows back means a next page exists.
func (a *Service) fetchPage(ctx context.Context, filter domain.FeedFilter, page, size int) ([]domain.Article, bool, error) {
	page, size = repository.NormalizePage(page, size)
	offset := repository.PageOffset(page, size)

	articles, err := a.articleRepo.FetchFeed(ctx, filter, offset, size+1)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(articles) > size
	if hasMore {
		articles = articles[:size]
	}
	return articles, hasMore, nil
}

func (a *Service) Feed(ctx context.Context, page, size int) ([]domain.Article, bool, error) {
	return a.fetchPage(ctx, domain.FeedFilter{}, page, size)
}

func (a *Service) Search(ctx context.Context, query string, page, size int) ([]domain.Article, bool, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false, domain.ErrBadParamInput
	}
	return a.fetchPage(ctx, domain.FeedFilter{Search: query}, page, size)
}

// FeedOfTag also reports the total number of published articles under
// the tag; page and count are fetched concurrently.
func (a *Service) FeedOfTag(ctx context.Context, tag string, page, size int) ([]domain.Article, bool, int64, error) {
	var (
		articles []domain.Article
		hasMore  bool
		count    int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		articles, hasMore, err = a.fetchPage(gctx, domain.FeedFilter{Tag: tag}, page, size)
		return err
	})
	g.Go(func() (err error) {
		count, err = a.articleRepo.CountByTag(gctx, tag)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, false, 0, err
	}
	return articles, hasMore, count, nil
}

// FeedOfAuthor includes the author's drafts only when they are the one
// asking.
func (a *Service) FeedOfAuthor(ctx context.Context, username string, viewerID int64, page, size int) ([]domain.Article, bool, error) {
	author, err := a.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}

	filter := domain.FeedFilter{
		AuthorUsername: username,
		IncludeDrafts:  viewerID != 0 && viewerID == author.ID,
	}
	return a.fetchPage(ctx, filter, page, size)
}

func (a *Service) GetBySlug(ctx context.Context, slug string, viewerID int64) (domain.Article, bool, error) {
	mayExist, err := a.bloomRepo.Exists(ctx, slug)
	if err != nil {
		logrus.Warnf("slug bloom filter check failed: %v", err)
	} else if !mayExist {
		return domain.Article{}, false, domain.ErrNotFound
	}

	res, err := a.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Article{}, false, err
	}

	isLiked := false
	if viewerID != 0 {
		isLiked, err = a.articleRepo.IsLiked(ctx, viewerID, res.ID)
		if err != nil {
			logrus.Warnf("failed to check like state: %v", err)
			isLiked = false
		}
	}
	return res, isLiked, nil
}

func (a *Service) Store(ctx context.Context, m *domain.Article) error {
	if m.Status == "" {
		m.Status = domain.StatusDraft
	}
	if m.Status == domain.StatusPublished {
		now := time.Now()
		m.PublishedAt = &now
	}

	slug, err := a.allocateSlug(ctx, m.Title)
	if err != nil {
		return err
	}
	m.Slug = slug

	if err := a.articleRepo.Store(ctx, m); err != nil {
		return err
	}

	if err := a.bloomRepo.Add(ctx, m.Slug); err != nil {
		logrus.Warnf("failed to add slug to bloom filter: %v", err)
	}
	return nil
}

// Update replaces title, body, tags and status of the article at
// ar.Slug. The slug is reallocated only when the title changed, so
// existing links keep working.
func (a *Service) Update(ctx context.Context, viewerID int64, ar *domain.Article) error {
	existing, err := a.articleRepo.GetBySlug(ctx, ar.Slug)
	if err != nil {
		return err
	}
	if existing.Author.ID != viewerID {
		return domain.ErrUnauthorized
	}

	if ar.Title != existing.Title {
		slug, err := a.allocateSlug(ctx, ar.Title)
		if err != nil {
			return err
		}
		ar.Slug = slug
	} else {
		ar.Slug = existing.Slug
	}

	if ar.Status == "" {
		ar.Status = existing.Status
	}
	ar.PublishedAt = existing.PublishedAt
	if ar.Status == domain.StatusPublished && existing.PublishedAt == nil {
		now := time.Now()
		ar.PublishedAt = &now
	}

	ar.ID = existing.ID
	ar.Author = existing.Author
	ar.Views = existing.Views
	ar.Likes = existing.Likes
	ar.CreatedAt = existing.CreatedAt
	ar.UpdatedAt = time.Now()

	if err := a.articleRepo.Update(ctx, ar); err != nil {
		return err
	}

	if err := a.bloomRepo.Add(ctx, ar.Slug); err != nil {
		logrus.Warnf("failed to add slug to bloom filter: %v", err)
	}
	return nil
}

func (a *Service) Delete(ctx context.Context, viewerID int64, slug string) error {
	existing, err := a.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if existing.Author.ID != viewerID {
		return domain.ErrUnauthorized
	}
	return a.articleRepo.Delete(ctx, existing.ID)
}

// TogglePublish flips DRAFT <-> PUBLISHED. PublishedAt is written only
// on the first DRAFT -> PUBLISHED transition and kept afterwards.
func (a *Service) TogglePublish(ctx context.Context, viewerID int64, slug string) (domain.Article, error) {
	existing, err := a.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return domain.Article{}, err
	}
	if existing.Author.ID != viewerID {
		return domain.Article{}, domain.ErrUnauthorized
	}

	if existing.Status == domain.StatusPublished {
		existing.Status = domain.StatusDraft
	} else {
		existing.Status = domain.StatusPublished
		if existing.PublishedAt == nil {
			now := time.Now()
			existing.PublishedAt = &now
		}
	}
	existing.UpdatedAt = time.Now()

	if err := a.articleRepo.Update(ctx, &existing); err != nil {
		return domain.Article{}, err
	}
	return existing, nil
}

func (a *Service) Like(ctx context.Context, userID int64, slug string) (int64, error) {
	art, err := a.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return a.articleRepo.Like(ctx, userID, art.ID)
}

func (a *Service) Unlike(ctx context.Context, userID int64, slug string) (int64, error) {
	art, err := a.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return 0, err
	}
	return a.articleRepo.Unlike(ctx, userID, art.ID)
}

// RecordView counts a view at most once per fingerprint inside the
// window. Cache trouble never blocks the page: the view simply goes
// uncounted. Two requests racing between Seen and MarkSeen can both
// count — accepted for a best-effort counter, no locking here.
func (a *Service) RecordView(ctx context.Context, slug, ip, userAgent string) (bool, int64, error) {
	art, err := a.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return false, 0, err
	}

	fingerprint := viewFingerprint(ip, userAgent, art.ID)

	seen, err := a.viewCache.Seen(ctx, fingerprint)
	if err != nil {
		logrus.Warnf("view cache unavailable, skipping count: %v", err)
		return false, art.Views, nil
	}
	if seen {
		return false, art.Views, nil
	}

	if err := a.viewCache.MarkSeen(ctx, fingerprint, domain.ViewWindow); err != nil {
		logrus.Warnf("view cache unavailable, skipping count: %v", err)
		return false, art.Views, nil
	}

	views, err := a.articleRepo.AddViews(ctx, art.ID, 1)
	if err != nil {
		// The token is already set, so this view stays uncounted for
		// the rest of the window. Rare and non-critical.
		return false, 0, err
	}
	return true, views, nil
}

// WarmSlugFilter loads every existing slug into the bloom filter.
func (a *Service) WarmSlugFilter(ctx context.Context) error {
	var cursor int64
	for {
		slugs, next, err := a.articleRepo.FetchSlugs(ctx, cursor, slugWarmupBatch)
		if err != nil {
			return err
		}
		if len(slugs) == 0 {
			return nil
		}
		if err := a.bloomRepo.BulkAdd(ctx, slugs); err != nil {
			return err
		}
		cursor = next
	}
}

// viewFingerprint hashes the client network identifier, agent string and
// article id into the dedup token. Distinct visitors behind one proxy
// share a fingerprint and undercount.
func viewFingerprint(ip, userAgent string, articleID int64) string {
	raw := fmt.Sprintf("%s-%s-%d", ip, userAgent, articleID)
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
