package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/contacthub/internal/server/services"
)

// ContactHandler serves the per-user address book. Every route runs behind
// BearerAuth, so currentUser is always set.
type ContactHandler struct {
	contacts ContactAPI
}

func NewContactHandler(contacts ContactAPI) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

type contactRequest struct {
	FirstName      string     `json:"first_name" binding:"required"`
	LastName       string     `json:"last_name" binding:"required"`
	Email          string     `json:"email" binding:"required,email"`
	PhoneNumber    string     `json:"phone_number" binding:"required"`
	Birthday       *time.Time `json:"birthday"`
	AdditionalInfo string     `json:"additional_info"`
}

func (in *contactRequest) toInput() services.ContactInput {
	return services.ContactInput{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		Birthday:       in.Birthday,
		AdditionalInfo: in.AdditionalInfo,
	}
}

func (h *ContactHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter := contacts.Filter{
		FirstName: c.Query("first_name"),
		LastName:  c.Query("last_name"),
		Email:     c.Query("email"),
	}

	list, err := h.contacts.List(c.Request.Context(), currentUser(c).ID,
		contacts.Page{Skip: skip, Limit: limit}, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponses(list))
}

func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	contact, err := h.contacts.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) Create(c *gin.Context) {
	var in contactRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	contact, err := h.contacts.Create(c.Request.Context(), currentUser(c).ID, in.toInput())
	if err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toContactResponse(contact))
}

func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	var in contactRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	contact, err := h.contacts.Update(c.Request.Context(), currentUser(c).ID, id, in.toInput())
	if err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := contactID(c)
	if !ok {
		return
	}
	contact, err := h.contacts.Delete(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		respondContactError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponse(contact))
}

func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	list, err := h.contacts.UpcomingBirthdays(c.Request.Context(), currentUser(c).ID, days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toContactResponses(list))
}

func contactID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		detail(c, http.StatusUnprocessableEntity, "Contact id must be an integer")
		return 0, false
	}
	return id, true
}

// respondContactError phrases not-found and conflict in address-book terms;
// everything else falls through to the shared mapping.
func respondContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		detail(c, http.StatusNotFound, "Contact not found")
	case errors.Is(err, common.ErrConflict):
		detail(c, http.StatusConflict, "Contact with this email already exists")
	default:
		respondError(c, err)
	}
}
