package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserHandler serves the authenticated profile routes.
type UserHandler struct {
	users UserAPI
}

func NewUserHandler(users UserAPI) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, toUserResponse(currentUser(c)))
}

func (h *UserHandler) ModeratorGreeting(c *gin.Context) {
	user := currentUser(c)
	message(c, "Hello, moderator "+user.Username)
}

func (h *UserHandler) AdminGreeting(c *gin.Context) {
	user := currentUser(c)
	message(c, "Hello, admin "+user.Username)
}

func (h *UserHandler) UpdateAvatar(c *gin.Context) {
	var in struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	user := currentUser(c)
	updated, err := h.users.UpdateAvatar(c.Request.Context(), user.Email, in.URL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(updated))
}
