package model

import "github.com/inkpress/inkpress/domain"

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"type:varchar(30);uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tag"
}

func (m *Tag) ToDomain() domain.Tag {
	return domain.Tag{
		ID:   m.ID,
		Name: m.Name,
	}
}

// ArticleTag joins articles and tags many-to-many.
type ArticleTag struct {
	ArticleID int64 `gorm:"column:article_id;not null;uniqueIndex:idx_article_tag"`
	TagID     int64 `gorm:"column:tag_id;not null;uniqueIndex:idx_article_tag"`
}

func (ArticleTag) TableName() string {
	return "article_tags"
}
