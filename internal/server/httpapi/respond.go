package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
	"github.com/dmitrijs2005/contacthub/internal/server/services"
)

// userResponse is the public shape of a user record. The password hash and
// the stored refresh token never leave the server.
type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar"`
	Role      string    `json:"role"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Role:      string(u.Role),
		Confirmed: u.Confirmed,
		CreatedAt: u.CreatedAt,
	}
}

type contactResponse struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phone_number"`
	Birthday       *time.Time `json:"birthday"`
	AdditionalInfo string     `json:"additional_info"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func toContactResponse(c *models.Contact) contactResponse {
	return contactResponse{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday,
		AdditionalInfo: c.AdditionalInfo,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toContactResponses(list []*models.Contact) []contactResponse {
	out := make([]contactResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toContactResponse(c))
	}
	return out
}

func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// respondError maps service errors onto status codes and the detail strings
// clients depend on. Unrecognized errors become an opaque 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrEmailTaken):
		detail(c, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, services.ErrUsernameTaken):
		detail(c, http.StatusConflict, "User with this username already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		detail(c, http.StatusUnauthorized, "Invalid username or password")
	case errors.Is(err, services.ErrEmailNotConfirmed):
		detail(c, http.StatusUnauthorized, "Email is not confirmed")
	case errors.Is(err, services.ErrInvalidRefreshToken):
		detail(c, http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, common.ErrUnauthorized):
		detail(c, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, common.ErrForbidden):
		detail(c, http.StatusForbidden, "Not enough permissions")
	case errors.Is(err, common.ErrInvalidToken):
		detail(c, http.StatusUnprocessableEntity, "Token is not correct")
	case errors.Is(err, common.ErrValidation):
		detail(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, common.ErrNotFound):
		detail(c, http.StatusNotFound, "Not found")
	default:
		detail(c, http.StatusInternalServerError, "Internal server error")
	}
}
