package article_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/domain"
	ucase "github.com/inkpress/inkpress/internal/usecase/article"
)

// fakeArticleRepo implements domain.ArticleRepository with per-test
// function fields. Unset methods return zero values.
type fakeArticleRepo struct {
	fetchFeedFn  func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error)
	countTagFn   func(ctx context.Context, tag string) (int64, error)
	getBySlugFn  func(ctx context.Context, slug string) (domain.Article, error)
	getByIDFn    func(ctx context.Context, id int64) (domain.Article, error)
	slugExistsFn func(ctx context.Context, slug string) (bool, error)
	storeFn      func(ctx context.Context, a *domain.Article) error
	updateFn     func(ctx context.Context, a *domain.Article) error
	deleteFn     func(ctx context.Context, id int64) error
	addViewsFn   func(ctx context.Context, id, delta int64) (int64, error)
	likeFn       func(ctx context.Context, userID, articleID int64) (int64, error)
	unlikeFn     func(ctx context.Context, userID, articleID int64) (int64, error)
	isLikedFn    func(ctx context.Context, userID, articleID int64) (bool, error)
	fetchSlugsFn func(ctx context.Context, cursor, limit int64) ([]string, int64, error)
}

func (f *fakeArticleRepo) FetchFeed(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
	if f.fetchFeedFn != nil {
		return f.fetchFeedFn(ctx, filter, offset, limit)
	}
	return nil, nil
}

func (f *fakeArticleRepo) CountByTag(ctx context.Context, tag string) (int64, error) {
	if f.countTagFn != nil {
		return f.countTagFn(ctx, tag)
	}
	return 0, nil
}

func (f *fakeArticleRepo) GetBySlug(ctx context.Context, slug string) (domain.Article, error) {
	if f.getBySlugFn != nil {
		return f.getBySlugFn(ctx, slug)
	}
	return domain.Article{}, domain.ErrNotFound
}

func (f *fakeArticleRepo) GetByID(ctx context.Context, id int64) (domain.Article, error) {
	if f.getByIDFn != nil {
		return f.getByIDFn(ctx, id)
	}
	return domain.Article{}, domain.ErrNotFound
}

func (f *fakeArticleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	if f.slugExistsFn != nil {
		return f.slugExistsFn(ctx, slug)
	}
	return false, nil
}

func (f *fakeArticleRepo) Store(ctx context.Context, a *domain.Article) error {
	if f.storeFn != nil {
		return f.storeFn(ctx, a)
	}
	return nil
}

func (f *fakeArticleRepo) Update(ctx context.Context, a *domain.Article) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, a)
	}
	return nil
}

func (f *fakeArticleRepo) Delete(ctx context.Context, id int64) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeArticleRepo) AddViews(ctx context.Context, id, delta int64) (int64, error) {
	if f.addViewsFn != nil {
		return f.addViewsFn(ctx, id, delta)
	}
	return 0, nil
}

func (f *fakeArticleRepo) Like(ctx context.Context, userID, articleID int64) (int64, error) {
	if f.likeFn != nil {
		return f.likeFn(ctx, userID, articleID)
	}
	return 0, nil
}

func (f *fakeArticleRepo) Unlike(ctx context.Context, userID, articleID int64) (int64, error) {
	if f.unlikeFn != nil {
		return f.unlikeFn(ctx, userID, articleID)
	}
	return 0, nil
}

func (f *fakeArticleRepo) IsLiked(ctx context.Context, userID, articleID int64) (bool, error) {
	if f.isLikedFn != nil {
		return f.isLikedFn(ctx, userID, articleID)
	}
	return false, nil
}

func (f *fakeArticleRepo) FetchSlugs(ctx context.Context, cursor, limit int64) ([]string, int64, error) {
	if f.fetchSlugsFn != nil {
		return f.fetchSlugsFn(ctx, cursor, limit)
	}
	return nil, cursor, nil
}

type fakeUserRepo struct {
	getByUsernameFn func(ctx context.Context, username string) (domain.User, error)
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	if f.getByUsernameFn != nil {
		return f.getByUsernameFn(ctx, username)
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeUserRepo) ExistsByEmailOrUsername(ctx context.Context, email, username string, excludeID int64) (bool, error) {
	return false, nil
}

func (f *fakeUserRepo) Insert(ctx context.Context, u *domain.User) error { return nil }

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error { return nil }

type fakeViewCache struct {
	seenFn     func(ctx context.Context, fingerprint string) (bool, error)
	markSeenFn func(ctx context.Context, fingerprint string, ttl time.Duration) error
}

func (f *fakeViewCache) Seen(ctx context.Context, fingerprint string) (bool, error) {
	if f.seenFn != nil {
		return f.seenFn(ctx, fingerprint)
	}
	return false, nil
}

func (f *fakeViewCache) MarkSeen(ctx context.Context, fingerprint string, ttl time.Duration) error {
	if f.markSeenFn != nil {
		return f.markSeenFn(ctx, fingerprint, ttl)
	}
	return nil
}

type fakeBloomRepo struct {
	addFn    func(ctx context.Context, slug string) error
	existsFn func(ctx context.Context, slug string) (bool, error)
	bulkFn   func(ctx context.Context, slugs []string) error
}

func (f *fakeBloomRepo) Add(ctx context.Context, slug string) error {
	if f.addFn != nil {
		return f.addFn(ctx, slug)
	}
	return nil
}

func (f *fakeBloomRepo) Exists(ctx context.Context, slug string) (bool, error) {
	if f.existsFn != nil {
		return f.existsFn(ctx, slug)
	}
	return true, nil
}

func (f *fakeBloomRepo) BulkAdd(ctx context.Context, slugs []string) error {
	if f.bulkFn != nil {
		return f.bulkFn(ctx, slugs)
	}
	return nil
}

func newService(ar *fakeArticleRepo, ur *fakeUserRepo, vc *fakeViewCache, br *fakeBloomRepo) *ucase.Service {
	if ar == nil {
		ar = &fakeArticleRepo{}
	}
	if ur == nil {
		ur = &fakeUserRepo{}
	}
	if vc == nil {
		vc = &fakeViewCache{}
	}
	if br == nil {
		br = &fakeBloomRepo{}
	}
	return ucase.NewService(ar, ur, vc, br)
}

func fakeArticles(n int) []domain.Article {
	out := make([]domain.Article, n)
	now := time.Now()
	for i := range out {
		published := now.Add(-time.Duration(i) * time.Hour)
		out[i] = domain.Article{
			ID:          int64(n - i),
			Slug:        faker.Username(),
			Title:       faker.Sentence(),
			Body:        faker.Paragraph(),
			Status:      domain.StatusPublished,
			PublishedAt: &published,
		}
	}
	return out
}

func TestFeed(t *testing.T) {
	t.Run("full page means more", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				assert.True(t, filter.IsHome())
				assert.Equal(t, 0, offset)
				// one extra row requested to detect the next page
				assert.Equal(t, domain.DefaultPageSize+1, limit)
				return fakeArticles(limit), nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		articles, hasMore, err := svc.Feed(context.Background(), 1, domain.DefaultPageSize)
		require.NoError(t, err)
		assert.Len(t, articles, domain.DefaultPageSize)
		assert.True(t, hasMore)
	})

	t.Run("short page is the last one", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				return fakeArticles(3), nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		articles, hasMore, err := svc.Feed(context.Background(), 1, domain.DefaultPageSize)
		require.NoError(t, err)
		assert.Len(t, articles, 3)
		assert.False(t, hasMore)
	})

	t.Run("out of range paging is clamped", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				assert.Equal(t, 0, offset)
				assert.Equal(t, domain.DefaultPageSize+1, limit)
				return nil, nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		_, _, err := svc.Feed(context.Background(), -3, 9999)
		require.NoError(t, err)
	})

	t.Run("second page offset", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				assert.Equal(t, 10, offset)
				assert.Equal(t, 11, limit)
				return nil, nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		_, _, err := svc.Feed(context.Background(), 2, 10)
		require.NoError(t, err)
	})
}

func TestSearch(t *testing.T) {
	t.Run("blank query rejected", func(t *testing.T) {
		svc := newService(nil, nil, nil, nil)
		_, _, err := svc.Search(context.Background(), "   ", 1, 8)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})

	t.Run("query trimmed and forwarded", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				assert.Equal(t, "golang", filter.Search)
				return fakeArticles(1), nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		articles, hasMore, err := svc.Search(context.Background(), "  golang  ", 1, 8)
		require.NoError(t, err)
		assert.Len(t, articles, 1)
		assert.False(t, hasMore)
	})
}

func TestFeedOfTag(t *testing.T) {
	repo := &fakeArticleRepo{
		fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
			assert.Equal(t, "go", filter.Tag)
			return fakeArticles(2), nil
		},
		countTagFn: func(ctx context.Context, tag string) (int64, error) {
			assert.Equal(t, "go", tag)
			return 42, nil
		},
	}
	svc := newService(repo, nil, nil, nil)

	articles, hasMore, count, err := svc.FeedOfTag(context.Background(), "go", 1, 8)
	require.NoError(t, err)
	assert.Len(t, articles, 2)
	assert.False(t, hasMore)
	assert.Equal(t, int64(42), count)
}

func TestFeedOfAuthor(t *testing.T) {
	author := domain.User{ID: 7, Username: "alice"}
	userRepo := &fakeUserRepo{
		getByUsernameFn: func(ctx context.Context, username string) (domain.User, error) {
			if username == author.Username {
				return author, nil
			}
			return domain.User{}, domain.ErrNotFound
		},
	}

	t.Run("owner sees drafts", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				assert.True(t, filter.IncludeDrafts)
				assert.Equal(t, "alice", filter.AuthorUsername)
				return nil, nil
			},
		}
		svc := newService(repo, userRepo, nil, nil)

		_, _, err := svc.FeedOfAuthor(context.Background(), "alice", author.ID, 1, 8)
		require.NoError(t, err)
	})

	t.Run("other viewers do not", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				assert.False(t, filter.IncludeDrafts)
				return nil, nil
			},
		}
		svc := newService(repo, userRepo, nil, nil)

		_, _, err := svc.FeedOfAuthor(context.Background(), "alice", 99, 1, 8)
		require.NoError(t, err)
	})

	t.Run("anonymous does not", func(t *testing.T) {
		repo := &fakeArticleRepo{
			fetchFeedFn: func(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
				assert.False(t, filter.IncludeDrafts)
				return nil, nil
			},
		}
		svc := newService(repo, userRepo, nil, nil)

		_, _, err := svc.FeedOfAuthor(context.Background(), "alice", 0, 1, 8)
		require.NoError(t, err)
	})

	t.Run("unknown author", func(t *testing.T) {
		svc := newService(nil, userRepo, nil, nil)
		_, _, err := svc.FeedOfAuthor(context.Background(), "nobody", 0, 1, 8)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestGetBySlug(t *testing.T) {
	art := domain.Article{ID: 1, Slug: "hello-world", Author: domain.User{ID: 7}}

	t.Run("bloom negative short-circuits", func(t *testing.T) {
		dbHit := false
		repo := &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) {
				dbHit = true
				return art, nil
			},
		}
		bloom := &fakeBloomRepo{
			existsFn: func(ctx context.Context, slug string) (bool, error) { return false, nil },
		}
		svc := newService(repo, nil, nil, bloom)

		_, _, err := svc.GetBySlug(context.Background(), "hello-world", 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, dbHit)
	})

	t.Run("bloom failure falls through to the store", func(t *testing.T) {
		repo := &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) { return art, nil },
		}
		bloom := &fakeBloomRepo{
			existsFn: func(ctx context.Context, slug string) (bool, error) {
				return false, errors.New("redis down")
			},
		}
		svc := newService(repo, nil, nil, bloom)

		got, _, err := svc.GetBySlug(context.Background(), "hello-world", 0)
		require.NoError(t, err)
		assert.Equal(t, art.ID, got.ID)
	})

	t.Run("like state for the viewer", func(t *testing.T) {
		repo := &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) { return art, nil },
			isLikedFn: func(ctx context.Context, userID, articleID int64) (bool, error) {
				assert.Equal(t, int64(5), userID)
				assert.Equal(t, art.ID, articleID)
				return true, nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		_, isLiked, err := svc.GetBySlug(context.Background(), "hello-world", 5)
		require.NoError(t, err)
		assert.True(t, isLiked)
	})

	t.Run("anonymous skips the like lookup", func(t *testing.T) {
		repo := &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) { return art, nil },
			isLikedFn: func(ctx context.Context, userID, articleID int64) (bool, error) {
				t.Fatal("IsLiked should not be called for anonymous viewers")
				return false, nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		_, isLiked, err := svc.GetBySlug(context.Background(), "hello-world", 0)
		require.NoError(t, err)
		assert.False(t, isLiked)
	})
}

func TestStore(t *testing.T) {
	t.Run("defaults to draft without publish time", func(t *testing.T) {
		var stored *domain.Article
		repo := &fakeArticleRepo{
			storeFn: func(ctx context.Context, a *domain.Article) error {
				stored = a
				return nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		ar := &domain.Article{Title: "Hello World", Body: faker.Paragraph()}
		require.NoError(t, svc.Store(context.Background(), ar))
		require.NotNil(t, stored)
		assert.Equal(t, domain.StatusDraft, stored.Status)
		assert.Nil(t, stored.PublishedAt)
		assert.Equal(t, "hello-world", stored.Slug)
	})

	t.Run("publishing on create stamps the time", func(t *testing.T) {
		svc := newService(&fakeArticleRepo{}, nil, nil, nil)

		ar := &domain.Article{Title: "Go Tips", Body: "...", Status: domain.StatusPublished}
		require.NoError(t, svc.Store(context.Background(), ar))
		require.NotNil(t, ar.PublishedAt)
		assert.WithinDuration(t, time.Now(), *ar.PublishedAt, time.Minute)
	})

	t.Run("taken slug gets the lowest free suffix", func(t *testing.T) {
		taken := map[string]bool{"hello-world": true, "hello-world-1": true}
		repo := &fakeArticleRepo{
			slugExistsFn: func(ctx context.Context, slug string) (bool, error) {
				return taken[slug], nil
			},
		}
		bloomed := ""
		bloom := &fakeBloomRepo{
			addFn: func(ctx context.Context, slug string) error {
				bloomed = slug
				return nil
			},
		}
		svc := newService(repo, nil, nil, bloom)

		ar := &domain.Article{Title: "Hello, World!", Body: "..."}
		require.NoError(t, svc.Store(context.Background(), ar))
		assert.Equal(t, "hello-world-2", ar.Slug)
		assert.Equal(t, "hello-world-2", bloomed)
	})

	t.Run("bloom failure does not fail the write", func(t *testing.T) {
		bloom := &fakeBloomRepo{
			addFn: func(ctx context.Context, slug string) error { return errors.New("redis down") },
		}
		svc := newService(&fakeArticleRepo{}, nil, nil, bloom)

		ar := &domain.Article{Title: "Hello", Body: "..."}
		assert.NoError(t, svc.Store(context.Background(), ar))
	})
}

func TestUpdate(t *testing.T) {
	publishedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	existing := domain.Article{
		ID:          3,
		Slug:        "hello-world",
		Title:       "Hello World",
		Body:        "old body",
		Status:      domain.StatusPublished,
		PublishedAt: &publishedAt,
		Author:      domain.User{ID: 7},
		Views:       100,
		Likes:       5,
	}

	repoFor := func(updated **domain.Article) *fakeArticleRepo {
		return &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) {
				if slug == existing.Slug {
					return existing, nil
				}
				return domain.Article{}, domain.ErrNotFound
			},
			updateFn: func(ctx context.Context, a *domain.Article) error {
				*updated = a
				return nil
			},
		}
	}

	t.Run("only the author may edit", func(t *testing.T) {
		var updated *domain.Article
		svc := newService(repoFor(&updated), nil, nil, nil)

		ar := &domain.Article{Slug: "hello-world", Title: "Hello World", Body: "new"}
		err := svc.Update(context.Background(), 99, ar)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
		assert.Nil(t, updated)
	})

	t.Run("same title keeps the slug", func(t *testing.T) {
		var updated *domain.Article
		svc := newService(repoFor(&updated), nil, nil, nil)

		ar := &domain.Article{Slug: "hello-world", Title: "Hello World", Body: "new body"}
		require.NoError(t, svc.Update(context.Background(), 7, ar))
		require.NotNil(t, updated)
		assert.Equal(t, "hello-world", updated.Slug)
		assert.Equal(t, existing.Views, updated.Views)
		assert.Equal(t, existing.Likes, updated.Likes)
	})

	t.Run("new title reallocates the slug", func(t *testing.T) {
		var updated *domain.Article
		svc := newService(repoFor(&updated), nil, nil, nil)

		ar := &domain.Article{Slug: "hello-world", Title: "Goodbye World", Body: "new body"}
		require.NoError(t, svc.Update(context.Background(), 7, ar))
		require.NotNil(t, updated)
		assert.Equal(t, "goodbye-world", updated.Slug)
	})

	t.Run("publish time survives edits", func(t *testing.T) {
		var updated *domain.Article
		svc := newService(repoFor(&updated), nil, nil, nil)

		ar := &domain.Article{Slug: "hello-world", Title: "Hello World", Body: "new", Status: domain.StatusPublished}
		require.NoError(t, svc.Update(context.Background(), 7, ar))
		require.NotNil(t, updated.PublishedAt)
		assert.Equal(t, publishedAt, *updated.PublishedAt)
	})
}

func TestTogglePublish(t *testing.T) {
	t.Run("first publish stamps the time once", func(t *testing.T) {
		draft := domain.Article{
			ID:     9,
			Slug:   "wip",
			Status: domain.StatusDraft,
			Author: domain.User{ID: 7},
		}
		var updated *domain.Article
		repo := &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) { return draft, nil },
			updateFn: func(ctx context.Context, a *domain.Article) error {
				updated = a
				return nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		got, err := svc.TogglePublish(context.Background(), 7, "wip")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPublished, got.Status)
		require.NotNil(t, got.PublishedAt)
		require.NotNil(t, updated)
	})

	t.Run("unpublish keeps the original publish time", func(t *testing.T) {
		publishedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		live := domain.Article{
			ID:          9,
			Slug:        "live",
			Status:      domain.StatusPublished,
			PublishedAt: &publishedAt,
			Author:      domain.User{ID: 7},
		}
		repo := &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) { return live, nil },
		}
		svc := newService(repo, nil, nil, nil)

		got, err := svc.TogglePublish(context.Background(), 7, "live")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusDraft, got.Status)
		require.NotNil(t, got.PublishedAt)
		assert.Equal(t, publishedAt, *got.PublishedAt)

		// republishing keeps the first timestamp too
		repo.getBySlugFn = func(ctx context.Context, slug string) (domain.Article, error) { return got, nil }
		again, err := svc.TogglePublish(context.Background(), 7, "live")
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPublished, again.Status)
		assert.Equal(t, publishedAt, *again.PublishedAt)
	})

	t.Run("not the author", func(t *testing.T) {
		repo := &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) {
				return domain.Article{Author: domain.User{ID: 7}}, nil
			},
		}
		svc := newService(repo, nil, nil, nil)

		_, err := svc.TogglePublish(context.Background(), 99, "wip")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestLikeUnlike(t *testing.T) {
	art := domain.Article{ID: 11, Slug: "hello"}
	repo := &fakeArticleRepo{
		getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) {
			if slug == art.Slug {
				return art, nil
			}
			return domain.Article{}, domain.ErrNotFound
		},
		likeFn: func(ctx context.Context, userID, articleID int64) (int64, error) {
			assert.Equal(t, art.ID, articleID)
			return 6, nil
		},
		unlikeFn: func(ctx context.Context, userID, articleID int64) (int64, error) {
			return 5, nil
		},
	}
	svc := newService(repo, nil, nil, nil)

	likes, err := svc.Like(context.Background(), 5, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(6), likes)

	likes, err = svc.Unlike(context.Background(), 5, "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(5), likes)

	_, err = svc.Like(context.Background(), 5, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecordView(t *testing.T) {
	art := domain.Article{ID: 21, Slug: "hello", Views: 40}
	repo := func() *fakeArticleRepo {
		return &fakeArticleRepo{
			getBySlugFn: func(ctx context.Context, slug string) (domain.Article, error) { return art, nil },
			addViewsFn: func(ctx context.Context, id, delta int64) (int64, error) {
				assert.Equal(t, art.ID, id)
				assert.Equal(t, int64(1), delta)
				return art.Views + 1, nil
			},
		}
	}

	t.Run("first view counts", func(t *testing.T) {
		var markedTTL time.Duration
		vc := &fakeViewCache{
			markSeenFn: func(ctx context.Context, fingerprint string, ttl time.Duration) error {
				markedTTL = ttl
				return nil
			},
		}
		svc := newService(repo(), nil, vc, nil)

		counted, views, err := svc.RecordView(context.Background(), "hello", "10.0.0.1", "curl/8")
		require.NoError(t, err)
		assert.True(t, counted)
		assert.Equal(t, art.Views+1, views)
		assert.Equal(t, domain.ViewWindow, markedTTL)
	})

	t.Run("repeat view inside the window does not", func(t *testing.T) {
		vc := &fakeViewCache{
			seenFn: func(ctx context.Context, fingerprint string) (bool, error) { return true, nil },
		}
		r := repo()
		r.addViewsFn = func(ctx context.Context, id, delta int64) (int64, error) {
			t.Fatal("the counter must not move on a repeat view")
			return 0, nil
		}
		svc := newService(r, nil, vc, nil)

		counted, views, err := svc.RecordView(context.Background(), "hello", "10.0.0.1", "curl/8")
		require.NoError(t, err)
		assert.False(t, counted)
		assert.Equal(t, art.Views, views)
	})

	t.Run("different visitors count separately", func(t *testing.T) {
		marked := map[string]bool{}
		vc := &fakeViewCache{
			seenFn: func(ctx context.Context, fingerprint string) (bool, error) {
				return marked[fingerprint], nil
			},
			markSeenFn: func(ctx context.Context, fingerprint string, ttl time.Duration) error {
				marked[fingerprint] = true
				return nil
			},
		}
		svc := newService(repo(), nil, vc, nil)

		counted, _, err := svc.RecordView(context.Background(), "hello", "10.0.0.1", "curl/8")
		require.NoError(t, err)
		assert.True(t, counted)

		counted, _, err = svc.RecordView(context.Background(), "hello", "10.0.0.2", "curl/8")
		require.NoError(t, err)
		assert.True(t, counted)

		counted, _, err = svc.RecordView(context.Background(), "hello", "10.0.0.1", "curl/8")
		require.NoError(t, err)
		assert.False(t, counted)
	})

	t.Run("cache outage skips counting but serves the page", func(t *testing.T) {
		vc := &fakeViewCache{
			seenFn: func(ctx context.Context, fingerprint string) (bool, error) {
				return false, errors.New("redis down")
			},
		}
		svc := newService(repo(), nil, vc, nil)

		counted, views, err := svc.RecordView(context.Background(), "hello", "10.0.0.1", "curl/8")
		require.NoError(t, err)
		assert.False(t, counted)
		assert.Equal(t, art.Views, views)
	})

	t.Run("counter failure surfaces", func(t *testing.T) {
		r := repo()
		r.addViewsFn = func(ctx context.Context, id, delta int64) (int64, error) {
			return 0, errors.New("db gone")
		}
		svc := newService(r, nil, &fakeViewCache{}, nil)

		counted, _, err := svc.RecordView(context.Background(), "hello", "10.0.0.1", "curl/8")
		assert.Error(t, err)
		assert.False(t, counted)
	})

	t.Run("unknown article", func(t *testing.T) {
		svc := newService(&fakeArticleRepo{}, nil, nil, nil)
		_, _, err := svc.RecordView(context.Background(), "missing", "10.0.0.1", "curl/8")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestWarmSlugFilter(t *testing.T) {
	pages := [][]string{
		{"a", "b", "c"},
		{"d"},
	}
	var added []string
	repo := &fakeArticleRepo{
		fetchSlugsFn: func(ctx context.Context, cursor, limit int64) ([]string, int64, error) {
			if int(cursor) >= len(pages) {
				return nil, cursor, nil
			}
			return pages[cursor], cursor + 1, nil
		},
	}
	bloom := &fakeBloomRepo{
		bulkFn: func(ctx context.Context, slugs []string) error {
			added = append(added, slugs...)
			return nil
		},
	}
	svc := newService(repo, nil, nil, bloom)

	require.NoError(t, svc.WarmSlugFilter(context.Background()))
	assert.Equal(t, []string{"a", "b", "c", "d"}, added)
}
