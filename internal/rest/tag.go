package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/inkpress/domain"
)

// TagHandler represent the httphandler for tag
type TagHandler struct {
	Service domain.TagUsecase
}

func NewTagHandler(svc domain.TagUsecase) *TagHandler {
	return &TagHandler{
		Service: svc,
	}
}

// Popular returns the most used tag names
func (h *TagHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	tags, err := h.Service.Popular(c.Request.Context(), limit)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}

// Search returns tag names matching ?q
func (h *TagHandler) Search(c *gin.Context) {
	tags, err := h.Service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tags": tags})
}
