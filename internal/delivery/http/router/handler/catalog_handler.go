package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"bazaar/internal/delivery/http/response"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CatalogHandler serves the read-only storefront listings.
type CatalogHandler struct {
	catalogUsecase usecase.CatalogUsecase
	logger         *slog.Logger
}

// NewCatalogHandler is the constructor for CatalogHandler.
func NewCatalogHandler(catalogUsecase usecase.CatalogUsecase, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogUsecase: catalogUsecase,
		logger:         logger,
	}
}

type pageRequest struct {
	Page    int `query:"page"`
	PerPage int `query:"per_page"`
}

func (r pageRequest) toPageInput() usecase.PageInput {
	return usecase.PageInput{Page: r.Page, PerPage: r.PerPage}
}

type listShopsRequest struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	State   string `query:"state"`
}

// ListShops handles GET /shop/ with an optional active-state filter.
func (h *CatalogHandler) ListShops(c echo.Context) error {
	var req listShopsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid query parameters: "+err.Error())
	}

	input := usecase.ListShopsInput{
		Page: usecase.PageInput{Page: req.Page, PerPage: req.PerPage},
	}
	if req.State != "" {
		state, err := strconv.ParseBool(req.State)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "state must be a boolean")
		}
		input.State = &state
	}

	page, err := h.catalogUsecase.ListShops(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, pageView{
		Count:   page.Count,
		Page:    page.Page,
		PerPage: page.PerPage,
		Results: toShopViews(page.Results),
	})
}

// ListCategories handles GET /category/.
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	var req pageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid query parameters: "+err.Error())
	}

	page, err := h.catalogUsecase.ListCategories(c.Request().Context(), req.toPageInput())
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, pageView{
		Count:   page.Count,
		Page:    page.Page,
		PerPage: page.PerPage,
		Results: toCategoryViews(page.Results),
	})
}

type listProductsRequest struct {
	Page       int    `query:"page"`
	PerPage    int    `query:"per_page"`
	ShopID     string `query:"shop_id"`
	CategoryID string `query:"category_id"`
}

// ListProducts handles GET /product/ with optional shop and category filters.
func (h *CatalogHandler) ListProducts(c echo.Context) error {
	var req listProductsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid query parameters: "+err.Error())
	}

	input := usecase.ListProductsInput{
		Page: usecase.PageInput{Page: req.Page, PerPage: req.PerPage},
	}
	if req.ShopID != "" {
		shopID, err := uuid.Parse(req.ShopID)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "shop_id must be a valid UUID")
		}
		input.ShopID = &shopID
	}
	if req.CategoryID != "" {
		categoryID, err := uuid.Parse(req.CategoryID)
		if err != nil {
			return response.BindingError(c, "INVALID_INPUT", "category_id must be a valid UUID")
		}
		input.CategoryID = &categoryID
	}

	page, err := h.catalogUsecase.ListProducts(c.Request().Context(), input)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, pageView{
		Count:   page.Count,
		Page:    page.Page,
		PerPage: page.PerPage,
		Results: toProductInfoViews(page.Results),
	})
}
