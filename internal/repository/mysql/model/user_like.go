package model

import (
	"time"

	"github.com/inkpress/inkpress/domain"
)

type UserLike struct {
	ArticleID int64     `gorm:"column:article_id;not null;uniqueIndex:idx_user_article"`
	UserID    int64     `gorm:"column:user_id;not null;uniqueIndex:idx_user_article"`
	CreatedAt time.Time `gorm:"type:datetime"`
}

func (UserLike) TableName() string {
	return "user_likes"
}

func NewUserLikeFromDomain(ul domain.UserLike) UserLike {
	return UserLike{
		ArticleID: ul.ArticleID,
		UserID:    ul.UserID,
		CreatedAt: ul.CreatedAt,
	}
}
