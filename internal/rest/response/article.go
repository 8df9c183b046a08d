package response

import (
	"github.com/inkpress/inkpress/domain"
)

const timeLayout = "2006-01-02 15:04:05"

type Author struct {
	Username    string `json:"username"`
	Name        string `json:"name"`
	AvatarImage string `json:"avatar_image,omitempty"`
}

type Article struct {
	ID          int64    `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Body        string   `json:"body"`
	Status      string   `json:"status"`
	PublishedAt string   `json:"published_at,omitempty"`
	Author      Author   `json:"author"`
	Tags        []string `json:"tags"`
	Views       int64    `json:"views"`
	Likes       int64    `json:"likes"`
	UpdatedAt   string   `json:"updated_at"`
	CreatedAt   string   `json:"created_at"`
}

// FromDomain: Domain -> Response
func NewArticleFromDomain(a *domain.Article) Article {
	res := Article{
		ID:     a.ID,
		Slug:   a.Slug,
		Title:  a.Title,
		Body:   a.Body,
		Status: string(a.Status),
		Author: Author{
			Username:    a.Author.Username,
			Name:        a.Author.Name,
			AvatarImage: a.Author.AvatarImage,
		},
		Tags:      a.Tags,
		Views:     a.Views,
		Likes:     a.Likes,
		UpdatedAt: a.UpdatedAt.Format(timeLayout),
		CreatedAt: a.CreatedAt.Format(timeLayout),
	}
	if a.PublishedAt != nil {
		res.PublishedAt = a.PublishedAt.Format(timeLayout)
	}
	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res
}

func NewArticleListFromDomain(articles []domain.Article) []Article {
	res := make([]Article, len(articles))
	for i := range articles {
		res[i] = NewArticleFromDomain(&articles[i])
	}
	return res
}

type ArticleDetail struct {
	Article
	IsLiked bool `json:"is_liked"`
}

type Feed struct {
	Articles []Article `json:"articles"`
	HasMore  bool      `json:"has_more"`
}

type TagFeed struct {
	Feed
	Count int64 `json:"count"`
}

type LikeCount struct {
	Likes int64 `json:"likes"`
}

type ViewCount struct {
	Counted bool  `json:"counted"`
	Views   int64 `json:"views"`
}
