package model

import (
	"time"

	"github.com/inkpress/inkpress/domain"
)

type Article struct {
	ID          int64      `gorm:"primaryKey;autoIncrement"`
	Slug        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Title       string     `gorm:"type:varchar(200);not null"`
	Body        string     `gorm:"type:longtext;not null"`
	Status      string     `gorm:"type:varchar(16);not null;default:DRAFT;index"`
	PublishedAt *time.Time `gorm:"index"`
	UserID      int64      `gorm:"column:user_id;not null;index"`
	Views       int64      `gorm:"default:0"`
	Likes       int64      `gorm:"default:0"`
	UpdatedAt   time.Time  `gorm:"type:datetime"`
	CreatedAt   time.Time  `gorm:"type:datetime"`
}

func (Article) TableName() string {
	return "article"
}

func (m *Article) ToDomain() domain.Article {
	return domain.Article{
		ID:          m.ID,
		Slug:        m.Slug,
		Title:       m.Title,
		Body:        m.Body,
		Status:      domain.ArticleStatus(m.Status),
		PublishedAt: m.PublishedAt,
		UpdatedAt:   m.UpdatedAt,
		CreatedAt:   m.CreatedAt,
		Author: domain.User{
			ID: m.UserID,
		},
		Views: m.Views,
		Likes: m.Likes,
	}
}

func NewArticleFromDomain(a *domain.Article) *Article {
	return &Article{
		ID:          a.ID,
		Slug:        a.Slug,
		Title:       a.Title,
		Body:        a.Body,
		Status:      string(a.Status),
		PublishedAt: a.PublishedAt,
		UserID:      a.Author.ID,
		UpdatedAt:   a.UpdatedAt,
		CreatedAt:   a.CreatedAt,
		Views:       a.Views,
		Likes:       a.Likes,
	}
}
