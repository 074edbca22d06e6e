package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

// AuthHandler serves registration, login, token refresh and the email-driven
// confirmation and password-reset flows.
type AuthHandler struct {
	users UserAPI
}

func NewAuthHandler(users UserAPI) *AuthHandler {
	return &AuthHandler{users: users}
}

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in registerRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	role := models.Role(in.Role)
	if in.Role == "" {
		role = models.RoleUser
	}

	user, err := h.users.Register(c.Request.Context(), in.Username, in.Email, in.Password, role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login accepts form-encoded credentials, matching OAuth2 password-grant
// tooling.
func (h *AuthHandler) Login(c *gin.Context) {
	var in struct {
		Username string `form:"username" binding:"required"`
		Password string `form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	pair, err := h.users.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var in struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	pair, err := h.users.Refresh(c.Request.Context(), in.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user := currentUser(c)
	if err := h.users.Logout(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}
	message(c, "Logged out")
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	already, err := h.users.ConfirmEmail(c.Request.Context(), c.Param("token"))
	if err != nil {
		// A well-formed token naming an unknown account is a verification
		// failure, not a missing resource.
		if errors.Is(err, common.ErrNotFound) {
			detail(c, http.StatusBadRequest, "Verification error")
			return
		}
		respondError(c, err)
		return
	}
	if already {
		message(c, "Your email is already confirmed")
		return
	}
	message(c, "Email confirmed")
}

func (h *AuthHandler) RequestEmail(c *gin.Context) {
	var in struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	already, err := h.users.ResendConfirmation(c.Request.Context(), in.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	if already {
		message(c, "Your email is already confirmed")
		return
	}
	message(c, "Check your email for confirmation")
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.users.RequestPasswordReset(c.Request.Context(), in.Email, in.Password); err != nil {
		respondError(c, err)
		return
	}
	message(c, "Check your email for confirmation")
}

func (h *AuthHandler) ConfirmResetPassword(c *gin.Context) {
	if err := h.users.CompletePasswordReset(c.Request.Context(), c.Param("token")); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			detail(c, http.StatusBadRequest, "Verification error")
			return
		}
		respondError(c, err)
		return
	}
	message(c, "Password changed")
}
