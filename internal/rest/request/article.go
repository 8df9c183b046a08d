package request

import "github.com/inkpress/inkpress/domain"

// Article is the create/update payload. Tag names go through the custom
// "tagname" rule registered in rest.RegisterCustomValidators.
type Article struct {
	Title  string   `json:"title" binding:"required,max=200"`
	Body   string   `json:"body" binding:"required"`
	Tags   []string `json:"tags" binding:"omitempty,max=3,dive,tagname"`
	Status string   `json:"status" binding:"omitempty,oneof=DRAFT PUBLISHED"`
}

func (r *Article) ToDomain() domain.Article {
	return domain.Article{
		Title:  r.Title,
		Body:   r.Body,
		Tags:   r.Tags,
		Status: domain.ArticleStatus(r.Status),
	}
}
