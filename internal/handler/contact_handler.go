package handler

import (
	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ContactHandler struct {
	contactService service.ContactService
}

// NewContactHandler sets up the routing dependencies for Contact endpoints
func NewContactHandler(contactService service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// RegisterRoutes binds the endpoints to the gin Engine or RouterGroup.
// Every route requires an authenticated principal; operations are scoped to
// that principal's contacts only.
func (h *ContactHandler) RegisterRoutes(router *gin.RouterGroup, requireAuth gin.HandlerFunc, rateLimit func(string) gin.HandlerFunc) {
	contacts := router.Group("/contacts", requireAuth)
	{
		contacts.POST("/", rateLimit("contacts_create"), h.CreateContact)
		contacts.GET("/", h.ListContacts)
		contacts.GET("/search/", h.SearchContacts)
		contacts.GET("/birthdays/", h.UpcomingBirthdays)
		contacts.GET("/:id", h.GetContact)
		contacts.PUT("/:id", h.UpdateContact)
		contacts.DELETE("/:id", h.DeleteContact)
	}
}

func principal(c *gin.Context) (*model.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "Could not validate credentials"))
	}
	return user, ok
}

func contactID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid contact id"))
		return 0, false
	}
	return uint(id), true
}

// CreateContact handles POST /contacts/ requests mapping
// @Summary      Create a contact
// @Description  Creates a contact owned by the authenticated user
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateContactRequest  true  "Contact Payload"
// @Success      200      {object}  response.Response{data=service.ContactResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /contacts/ [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	var req service.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidBirthday) {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to create contact"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// ListContacts handles GET /contacts/ with pagination
// @Summary      List contacts
// @Description  Lists the authenticated user's contacts with page/limit pagination
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response{data=service.ContactListResponse}
// @Failure      401    {object}  response.Response
// @Router       /contacts/ [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)
	list, err := h.contactService.List(c.Request.Context(), user.ID, params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to list contacts"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// GetContact handles GET /contacts/:id
// @Summary      Get a contact
// @Description  Returns one of the authenticated user's contacts by id
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Contact ID"
// @Success      200  {object}  response.Response{data=service.ContactResponse}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contacts/{id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Contact not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch contact"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// UpdateContact handles PUT /contacts/:id with partial update semantics
// @Summary      Update a contact
// @Description  Updates only the fields present in the payload
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int                           true  "Contact ID"
// @Param        payload  body      service.UpdateContactRequest  true  "Fields to update"
// @Success      200      {object}  response.Response{data=service.ContactResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /contacts/{id} [put]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	var req service.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), user.ID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Contact not found"))
		case errors.Is(err, service.ErrInvalidBirthday):
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		default:
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to update contact"))
		}
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// DeleteContact handles DELETE /contacts/:id
// @Summary      Delete a contact
// @Description  Deletes one of the authenticated user's contacts and returns its prior state
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Contact ID"
// @Success      200  {object}  response.Response{data=service.ContactResponse}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}
	id, ok := contactID(c)
	if !ok {
		return
	}

	contact, err := h.contactService.Delete(c.Request.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, "Contact not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to delete contact"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contact))
}

// SearchContacts handles GET /contacts/search/
// @Summary      Search contacts
// @Description  Case-insensitive substring search over first name, last name, and email
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Param        name     query     string  false  "First name substring"
// @Param        surname  query     string  false  "Last name substring"
// @Param        email    query     string  false  "Email substring"
// @Success      200      {object}  response.Response{data=[]service.ContactResponse}
// @Failure      401      {object}  response.Response
// @Router       /contacts/search/ [get]
func (h *ContactHandler) SearchContacts(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.Search(
		c.Request.Context(),
		user.ID,
		c.Query("name"),
		c.Query("surname"),
		c.Query("email"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to search contacts"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contacts))
}

// UpcomingBirthdays handles GET /contacts/birthdays/
// @Summary      Upcoming birthdays
// @Description  Lists contacts whose birthday falls within the next 7 days
// @Tags         contacts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.ContactResponse}
// @Failure      401  {object}  response.Response
// @Router       /contacts/birthdays/ [get]
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	user, ok := principal(c)
	if !ok {
		return
	}

	contacts, err := h.contactService.UpcomingBirthdays(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Failed to fetch birthdays"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contacts))
}
