package mysql

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/domain"
	"github.com/inkpress/inkpress/internal/repository/mysql/model"
)

type articleRepository struct {
	DB *gorm.DB
}

var _ domain.ArticleRepository = (*articleRepository)(nil)

// NewArticleRepository 创建数据库操作层
func NewArticleRepository(db *gorm.DB) *articleRepository {
	return &articleRepository{db}
}

func (m *articleRepository) FetchFeed(ctx context.Context, filter domain.FeedFilter, offset, limit int) ([]domain.Article, error) {
	var articles []model.Article

	q := m.DB.WithContext(ctx).Model(&model.Article{})
	if !filter.IncludeDrafts {
		q = q.Where("article.status = ? AND article.published_at IS NOT NULL", string(domain.StatusPublished))
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		q = q.Where("LOWER(article.title) LIKE ? OR LOWER(article.body) LIKE ? OR LOWER(article.slug) LIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Tag != "" {
		q = q.Joins("JOIN article_tags ON article_tags.article_id = article.id").
			Joins("JOIN tag ON tag.id = article_tags.tag_id").
			Where("tag.name = ?", filter.Tag)
	}
	if filter.AuthorUsername != "" {
		q = q.Joins("JOIN user ON user.id = article.user_id").
			Where("user.username = ?", filter.AuthorUsername)
	}

	// Drafts have no published_at, so the author view orders by creation.
	if filter.IncludeDrafts {
		q = q.Order("article.created_at DESC, article.id DESC")
	} else {
		q = q.Order("article.published_at DESC, article.id DESC")
	}

	err := q.Offset(offset).Limit(limit).Find(&articles).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Article, len(articles))
	for i := range articles {
		res[i] = articles[i].ToDomain()
	}

	res, err = m.fillAuthors(ctx, res)
	if err != nil {
		return nil, err
	}
	return m.fillTags(ctx, res)
}

func (m *articleRepository) CountByTag(ctx context.Context, tag string) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Joins("JOIN article_tags ON article_tags.article_id = article.id").
		Joins("JOIN tag ON tag.id = article_tags.tag_id").
		Where("tag.name = ?", tag).
		Where("article.status = ? AND article.published_at IS NOT NULL", string(domain.StatusPublished)).
		Count(&count).Error
	return count, err
}

func (m *articleRepository) GetBySlug(ctx context.Context, slug string) (domain.Article, error) {
	var article model.Article
	err := m.DB.WithContext(ctx).First(&article, "slug = ?", slug).Error
	if err != nil {
		return domain.Article{}, domain.ErrNotFound
	}
	return m.hydrate(ctx, article)
}

func (m *articleRepository) GetByID(ctx context.Context, id int64) (domain.Article, error) {
	var article model.Article
	err := m.DB.WithContext(ctx).First(&article, "id = ?", id).Error
	if err != nil {
		return domain.Article{}, domain.ErrNotFound
	}
	return m.hydrate(ctx, article)
}

func (m *articleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Where("slug = ?", slug).
		Count(&count).Error
	return count > 0, err
}

func (m *articleRepository) Store(ctx context.Context, a *domain.Article) error {
	articleModel := model.NewArticleFromDomain(a)
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(articleModel).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrConflict
			}
			return err
		}
		return replaceTags(tx, articleModel.ID, a.Tags, false)
	})
	if err != nil {
		return err
	}

	a.ID = articleModel.ID
	a.CreatedAt = articleModel.CreatedAt
	a.UpdatedAt = articleModel.UpdatedAt
	return nil
}

func (m *articleRepository) Update(ctx context.Context, a *domain.Article) error {
	articleModel := model.NewArticleFromDomain(a)
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Article{}).
			Where("id = ?", articleModel.ID).
			Select("slug", "title", "body", "status", "published_at", "updated_at").
			Updates(articleModel)
		if result.Error != nil {
			if isDuplicateKey(result.Error) {
				return domain.ErrConflict
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return replaceTags(tx, articleModel.ID, a.Tags, true)
	})
}

func (m *articleRepository) Delete(ctx context.Context, id int64) error {
	return m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("article_id = ?", id).Delete(&model.ArticleTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("article_id = ?", id).Delete(&model.UserLike{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&model.Article{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// AddViews increments the view counter in place, never read-modify-write.
func (m *articleRepository) AddViews(ctx context.Context, id int64, deltaViews int64) (int64, error) {
	var views int64
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Article{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", deltaViews))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		var article model.Article
		if err := tx.Select("views").First(&article, "id = ?", id).Error; err != nil {
			return err
		}
		views = article.Views
		return nil
	})
	return views, err
}

// Like inserts the like row and bumps the counter in one transaction.
// A crash mid-way leaves either both or neither.
func (m *articleRepository) Like(ctx context.Context, userID, articleID int64) (int64, error) {
	var likes int64
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		userLike := model.UserLike{
			UserID:    userID,
			ArticleID: articleID,
		}
		if err := tx.Create(&userLike).Error; err != nil {
			if isDuplicateKey(err) {
				return domain.ErrAlreadyLiked
			}
			return err
		}

		result := tx.Model(&model.Article{}).
			Where("id = ?", articleID).
			UpdateColumn("likes", gorm.Expr("likes + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		var article model.Article
		if err := tx.Select("likes").First(&article, "id = ?", articleID).Error; err != nil {
			return err
		}
		likes = article.Likes
		return nil
	})
	return likes, err
}

// Unlike removes the like row and lowers the counter in one transaction.
// The guard on likes > 0 keeps the counter non-negative.
func (m *articleRepository) Unlike(ctx context.Context, userID, articleID int64) (int64, error) {
	var likes int64
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND article_id = ?", userID, articleID).
			Delete(&model.UserLike{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotLiked
		}

		if err := tx.Model(&model.Article{}).
			Where("id = ? AND likes > 0", articleID).
			UpdateColumn("likes", gorm.Expr("likes - ?", 1)).Error; err != nil {
			return err
		}

		var article model.Article
		if err := tx.Select("likes").First(&article, "id = ?", articleID).Error; err != nil {
			return err
		}
		likes = article.Likes
		return nil
	})
	return likes, err
}

func (m *articleRepository) IsLiked(ctx context.Context, userID, articleID int64) (bool, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.UserLike{}).
		Where("user_id = ? AND article_id = ?", userID, articleID).
		Count(&count).Error
	return count > 0, err
}

func (m *articleRepository) FetchSlugs(ctx context.Context, cursor, limit int64) ([]string, int64, error) {
	var articles []model.Article
	err := m.DB.WithContext(ctx).
		Model(&model.Article{}).
		Select("id, slug").
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Find(&articles).Error
	if err != nil {
		return nil, cursor, err
	}

	slugs := make([]string, len(articles))
	next := cursor
	for i := range articles {
		slugs[i] = articles[i].Slug
		next = articles[i].ID
	}
	return slugs, next, nil
}

func (m *articleRepository) hydrate(ctx context.Context, article model.Article) (domain.Article, error) {
	res := article.ToDomain()

	var user model.User
	if err := m.DB.WithContext(ctx).First(&user, "id = ?", article.UserID).Error; err != nil {
		return domain.Article{}, err
	}
	res.Author = user.ToDomain()

	filled, err := m.fillTags(ctx, []domain.Article{res})
	if err != nil {
		return domain.Article{}, err
	}
	return filled[0], nil
}

// fillAuthors 批量填充作者信息
func (m *articleRepository) fillAuthors(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	if len(articles) == 0 {
		return articles, nil
	}

	userIDs := make([]int64, 0, len(articles))
	existMap := make(map[int64]bool)
	for _, item := range articles {
		if !existMap[item.Author.ID] {
			userIDs = append(userIDs, item.Author.ID)
			existMap[item.Author.ID] = true
		}
	}

	var users []model.User
	if err := m.DB.WithContext(ctx).Where("id IN ?", userIDs).Find(&users).Error; err != nil {
		return nil, err
	}

	userMap := make(map[int64]domain.User, len(users))
	for i := range users {
		userMap[users[i].ID] = users[i].ToDomain()
	}

	for i := range articles {
		if u, ok := userMap[articles[i].Author.ID]; ok {
			articles[i].Author = u
		}
	}
	return articles, nil
}

// fillTags 批量填充标签名
func (m *articleRepository) fillTags(ctx context.Context, articles []domain.Article) ([]domain.Article, error) {
	if len(articles) == 0 {
		return articles, nil
	}

	ids := make([]int64, len(articles))
	for i := range articles {
		ids[i] = articles[i].ID
	}

	var rows []struct {
		ArticleID int64
		Name      string
	}
	err := m.DB.WithContext(ctx).
		Model(&model.ArticleTag{}).
		Select("article_tags.article_id, tag.name").
		Joins("JOIN tag ON tag.id = article_tags.tag_id").
		Where("article_tags.article_id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	tagMap := make(map[int64][]string)
	for _, row := range rows {
		tagMap[row.ArticleID] = append(tagMap[row.ArticleID], row.Name)
	}
	for i := range articles {
		articles[i].Tags = tagMap[articles[i].ID]
	}
	return articles, nil
}

// replaceTags rewires the article's tag associations inside tx.
// Tags are created lazily on first reference.
func replaceTags(tx *gorm.DB, articleID int64, names []string, clear bool) error {
	if clear {
		if err := tx.Where("article_id = ?", articleID).Delete(&model.ArticleTag{}).Error; err != nil {
			return err
		}
	}

	for _, name := range names {
		var tag model.Tag
		if err := tx.Where(model.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.ArticleTag{ArticleID: articleID, TagID: tag.ID}).Error; err != nil {
			return err
		}
	}
	return nil
}
