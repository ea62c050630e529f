package handler

import (
	"log/slog"
	"net/http"

	"bazaar/internal/delivery/http/response"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ContactHandler manages the caller's delivery contacts.
type ContactHandler struct {
	contactUsecase usecase.ContactUsecase
	logger         *slog.Logger
}

// NewContactHandler is the constructor for ContactHandler.
func NewContactHandler(contactUsecase usecase.ContactUsecase, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		contactUsecase: contactUsecase,
		logger:         logger,
	}
}

type createContactRequest struct {
	City      string `json:"city"   validate:"required"`
	Street    string `json:"street" validate:"required"`
	House     string `json:"house"  validate:"required"`
	Structure string `json:"structure"`
	Building  string `json:"building"`
	Apartment string `json:"apartment"`
	Phone     string `json:"phone" validate:"required"`
}

// CreateContact handles POST /get_contact/.
func (h *ContactHandler) CreateContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createContactRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if _, err := h.contactUsecase.CreateContact(c.Request().Context(), userID, usecase.CreateContactInput{
		City:      req.City,
		Street:    req.Street,
		House:     req.House,
		Structure: req.Structure,
		Building:  req.Building,
		Apartment: req.Apartment,
		Phone:     req.Phone,
	}); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, map[string]any{"status": "success"})
}

// ListContacts handles GET /get_contact/.
func (h *ContactHandler) ListContacts(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	contacts, err := h.contactUsecase.ListContacts(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	views := make([]*contactView, 0, len(contacts))
	for _, contact := range contacts {
		views = append(views, toContactView(contact))
	}

	return c.JSON(http.StatusOK, views)
}

// DeleteContact handles DELETE /get_contact/:contact_id/.
func (h *ContactHandler) DeleteContact(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	contactID, err := uuid.Parse(c.Param("contact_id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "contact_id must be a valid UUID")
	}

	if err := h.contactUsecase.DeleteContact(c.Request().Context(), userID, contactID); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, map[string]any{"status": "success"})
}
