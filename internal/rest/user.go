package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/inkpress/inkpress/domain"
	"github.com/inkpress/inkpress/internal/rest/request"
	"github.com/inkpress/inkpress/internal/rest/response"
)

// UserHandler represent the httphandler for user
type UserHandler struct {
	Service domain.UserUsecase
}

func NewUserHandler(svc domain.UserUsecase) *UserHandler {
	return &UserHandler{
		Service: svc,
	}
}

// Register creates a new account
func (h *UserHandler) Register(c *gin.Context) {
	var req request.Register
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	u, err := h.Service.Register(c.Request.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, response.NewUserFromDomain(&u))
}

// Login verifies credentials and returns a session token
func (h *UserHandler) Login(c *gin.Context) {
	var req request.Login
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	token, u, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Do not leak whether the account exists.
		c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, response.Token{
		Token: token,
		User:  response.NewUserFromDomain(&u),
	})
}

// GetProfile returns the public profile for a username
func (h *UserHandler) GetProfile(c *gin.Context) {
	u, err := h.Service.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	u.Email = "" // only the owner sees the email, via PUT /profile
	c.JSON(http.StatusOK, response.NewUserFromDomain(&u))
}

// UpdateProfile changes name, email and bio of the calling user
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req request.UpdateProfile
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
		return
	}

	u, err := h.Service.UpdateProfile(c.Request.Context(), viewerID(c), req.Name, req.Email, req.Bio)
	if err != nil {
		c.JSON(getStatusCode(err), ResponseError{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, response.NewUserFromDomain(&u))
}
