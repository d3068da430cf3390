package handlers

import (
	"net/http"

	"contacts_backend/internal/services"
	"contacts_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// ContactHandler serves the contacts of the authenticated user.
type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// ListContacts godoc
// @Summary List contacts
// @Description Every given filter narrows the result; birthday_in_next_days wraps over the year end
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100)" default(10)
// @Param offset query int false "Offset" default(0)
// @Param search query string false "Substring of first name, last name or email"
// @Param first_name query string false "Exact first name"
// @Param last_name query string false "Exact last name"
// @Param email query string false "Exact email"
// @Param phone query string false "Exact phone"
// @Param birthday_from query string false "YYYY-MM-DD, inclusive"
// @Param birthday_to query string false "YYYY-MM-DD, inclusive"
// @Param birthday_of_the_year_from query int false "Day of year 1-365, inclusive"
// @Param birthday_of_the_year_to query int false "Day of year 1-365, inclusive"
// @Param birthday_in_next_days query int false "Window length in days 1-365"
// @Success 200 {array} dto.ContactResponse
// @Failure 422 {object} apperrors.AppError "Validation failed"
// @Router /api/contacts [get]
func (h *ContactHandler) ListContacts(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}

	var query dto.ContactQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	contacts, err := h.contactService.Query(c.Request.Context(), h.GetDB(c), user.ID, query.Filter())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContactListResponse(contacts))
}

// ClosestBirthday godoc
// @Summary Contacts with a birthday in the next week
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (1-100)" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {array} dto.ContactResponse
// @Router /api/contacts/closest-birthday [get]
func (h *ContactHandler) ClosestBirthday(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}

	var page dto.PageQuery
	if !h.BindAndValidate_Query(c, &page) {
		return
	}

	contacts, err := h.contactService.ClosestBirthday(c.Request.Context(), h.GetDB(c), user.ID, page.Limit, page.Offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContactListResponse(contacts))
}

// CreateContact godoc
// @Summary Create a contact
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateContactRequest true "Contact"
// @Success 201 {object} dto.ContactResponse
// @Failure 400 {object} apperrors.AppError "Email already used by another contact"
// @Failure 422 {object} apperrors.AppError "Validation failed"
// @Router /api/contacts [post]
func (h *ContactHandler) CreateContact(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}

	var req dto.CreateContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), h.GetDB(c), user.ID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewContactResponse(contact))
}

// GetContact godoc
// @Summary Get a contact
// @Tags contacts
// @Produce json
// @Security BearerAuth
// @Param contact_id path int true "Contact ID"
// @Success 200 {object} dto.ContactResponse
// @Failure 404 {object} apperrors.AppError "Contact not found"
// @Router /api/contacts/{contact_id} [get]
func (h *ContactHandler) GetContact(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}

	id, err := ParseParamID(c, "contact_id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	contact, err := h.contactService.Get(c.Request.Context(), h.GetDB(c), user.ID, id)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

// UpdateContact godoc
// @Summary Update a contact
// @Description Partial update; an explicit null clears birthday or additional_info
// @Tags contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param contact_id path int true "Contact ID"
// @Param request body dto.UpdateContactRequest true "Fields to change"
// @Success 200 {object} dto.ContactResponse
// @Failure 400 {object} apperrors.AppError "Email already used by another contact"
// @Failure 404 {object} apperrors.AppError "Contact not found"
// @Router /api/contacts/{contact_id} [put]
// @Router /api/contacts/{contact_id} [patch]
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}

	id, err := ParseParamID(c, "contact_id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	var req dto.UpdateContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), h.GetDB(c), user.ID, id, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewContactResponse(contact))
}

// DeleteContact godoc
// @Summary Delete a contact
// @Tags contacts
// @Security BearerAuth
// @Param contact_id path int true "Contact ID"
// @Success 204
// @Failure 404 {object} apperrors.AppError "Contact not found"
// @Router /api/contacts/{contact_id} [delete]
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	user, ok := h.GetCurrentUser(c)
	if !ok {
		return
	}

	id, err := ParseParamID(c, "contact_id")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), h.GetDB(c), user.ID, id); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
