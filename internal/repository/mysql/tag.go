package mysql

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/inkpress/inkpress/domain"
	"github.com/inkpress/inkpress/internal/repository/mysql/model"
)

type tagRepository struct {
	DB *gorm.DB
}

var _ domain.TagRepository = (*tagRepository)(nil)

func NewTagRepository(db *gorm.DB) *tagRepository {
	return &tagRepository{db}
}

func (m *tagRepository) Popular(ctx context.Context, limit int) ([]string, error) {
	var names []string
	err := m.DB.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tag.name").
		Joins("LEFT JOIN article_tags ON article_tags.tag_id = tag.id").
		Group("tag.id, tag.name").
		Order("COUNT(article_tags.article_id) DESC").
		Limit(limit).
		Find(&names).Error
	return names, err
}

func (m *tagRepository) Search(ctx context.Context, query string, limit int) ([]string, error) {
	var names []string
	pattern := "%" + strings.ToLower(query) + "%"
	err := m.DB.WithContext(ctx).
		Model(&model.Tag{}).
		Select("tag.name").
		Joins("LEFT JOIN article_tags ON article_tags.tag_id = tag.id").
		Where("LOWER(tag.name) LIKE ?", pattern).
		Group("tag.id, tag.name").
		Order("COUNT(article_tags.article_id) DESC").
		Limit(limit).
		Find(&names).Error
	return names, err
}
