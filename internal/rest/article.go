package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/inkpress/inkpress/domain"
	"github.com/inkpress/inkpress/internal/rest/request"
	"github.com/inkpress/inkpress/internal/rest/response"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// ArticleHandler  represent the httphandler for article
type ArticleHandler struct {
	Service domain.ArticleUsecase
}

func NewArticleHandler(svc domain.ArticleUsecase) *ArticleHandler {
	return &ArticleHandler{
		Service: svc,
	}
}

func pageParams(c *gin.Context) (page, size int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ = strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(domain.DefaultPageSize)))
	return page, size
}

// viewerID returns the authenticated user's id, 0 when anonymous.
func viewerID(c *gin.Context) int64 {
	if v, exists := c.Get("user_id"); exists {
		return v.(int64)
	}
	return 0
}

// Feed returns a page of the published feed
func (a *ArticleHandler) Feed(c *gin.Context) {
	page, size := pageParams(c)

	articles, hasMore, err := a.Service.Feed(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.Feed{
		Articles: response.NewArticleListFromDomain(articles),
		HasMore:  hasMore,
	})
}

// Search returns a page of published articles matching ?q
func (a *ArticleHandler) Search(c *gin.Context) {
	page, size := pageParams(c)

	articles, hasMore, err := a.Service.Search(c.Request.Context(), c.Query("q"), page, size)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.Feed{
		Articles: response.NewArticleListFromDomain(articles),
		HasMore:  hasMore,
	})
}

// FeedOfTag returns a page of published articles under the tag, plus the
// total count for the tag
func (a *ArticleHandler) FeedOfTag(c *gin.Context) {
	page, size := pageParams(c)

	articles, hasMore, count, err := a.Service.FeedOfTag(c.Request.Context(), c.Param("tag"), page, size)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.TagFeed{
		Feed: response.Feed{
			Articles: response.NewArticleListFromDomain(articles),
			HasMore:  hasMore,
		},
		Count: count,
	})
}

// FeedOfAuthor returns a page of one author's articles. Drafts show up
// only when the author asks for their own feed.
func (a *ArticleHandler) FeedOfAuthor(c *gin.Context) {
	page, size := pageParams(c)

	articles, hasMore, err := a.Service.FeedOfAuthor(c.Request.Context(), c.Param("username"), viewerID(c), page, size)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.Feed{
		Articles: response.NewArticleListFromDomain(articles),
		HasMore:  hasMore,
	})
}

// GetBySlug will get article by given slug
func (a *ArticleHandler) GetBySlug(c *gin.Context) {
	art, isLiked, err := a.Service.GetBySlug(c.Request.Context(), c.Param("slug"), viewerID(c))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.ArticleDetail{
		Article: response.NewArticleFromDomain(&art),
		IsLiked: isLiked,
	})
}

// Store will store the article by given request body
func (a *ArticleHandler) Store(c *gin.Context) {
	var req request.Article
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	article := req.ToDomain()
	article.Author.ID = viewerID(c)

	if err := a.Service.Store(c.Request.Context(), &article); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewArticleFromDomain(&article))
}

// Update rewrites the article at the given slug
func (a *ArticleHandler) Update(c *gin.Context) {
	var req request.Article
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	article := req.ToDomain()
	article.Slug = c.Param("slug")

	if err := a.Service.Update(c.Request.Context(), viewerID(c), &article); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewArticleFromDomain(&article))
}

// Delete will delete the article by given slug
func (a *ArticleHandler) Delete(c *gin.Context) {
	if err := a.Service.Delete(c.Request.Context(), viewerID(c), c.Param("slug")); err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// TogglePublish flips the article between DRAFT and PUBLISHED
func (a *ArticleHandler) TogglePublish(c *gin.Context) {
	art, err := a.Service.TogglePublish(c.Request.Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewArticleFromDomain(&art))
}

// Like adds a like record if not exists
func (a *ArticleHandler) Like(c *gin.Context) {
	likes, err := a.Service.Like(c.Request.Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.LikeCount{Likes: likes})
}

// Unlike removes a like record if exists
func (a *ArticleHandler) Unlike(c *gin.Context) {
	likes, err := a.Service.Unlike(c.Request.Context(), viewerID(c), c.Param("slug"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.LikeCount{Likes: likes})
}

// View records a view for the caller's fingerprint
func (a *ArticleHandler) View(c *gin.Context) {
	counted, views, err := a.Service.RecordView(c.Request.Context(), c.Param("slug"), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.ViewCount{Counted: counted, Views: views})
}

// getStatusCode will get the code of the error from the usecase layer
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	logrus.Error(err)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyLiked),
		errors.Is(err, domain.ErrNotLiked):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDependency):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
