package handler

import (
	"log/slog"
	"net/http"

	"bazaar/internal/delivery/http/response"
	"bazaar/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SupplierHandler exposes the catalog feed ingestion endpoint for shop accounts.
type SupplierHandler struct {
	ingestUsecase usecase.IngestUsecase
	logger        *slog.Logger
}

// NewSupplierHandler is the constructor for SupplierHandler.
func NewSupplierHandler(ingestUsecase usecase.IngestUsecase, logger *slog.Logger) *SupplierHandler {
	return &SupplierHandler{
		ingestUsecase: ingestUsecase,
		logger:        logger,
	}
}

// UpdateCatalog handles POST /update/:file_name/. The feed file must already
// be present in the configured feed bucket.
func (h *SupplierHandler) UpdateCatalog(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	fileName := c.Param("file_name")
	if fileName == "" {
		return response.BindingError(c, "INVALID_INPUT", "file_name is required")
	}

	result, err := h.ingestUsecase.Ingest(c.Request().Context(), userID, fileName)
	if err != nil {
		return errors.WithStack(err)
	}

	h.logger.InfoContext(c.Request().Context(), "catalog feed applied",
		slog.String("file_name", fileName),
		slog.String("shop", result.Shop),
		slog.Int("categories", result.Categories),
		slog.Int("listings", result.Listings),
	)

	return c.JSON(http.StatusOK, statusTrue)
}
