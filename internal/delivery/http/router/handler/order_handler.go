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

// OrderHandler covers the basket and order lifecycle endpoints.
type OrderHandler struct {
	orderUsecase usecase.OrderUsecase
	logger       *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(orderUsecase usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		orderUsecase: orderUsecase,
		logger:       logger,
	}
}

type addItemRequest struct {
	ProductInfo string `json:"product_info"`
	Quantity    int    `json:"quantity"`
}

// AddItems handles POST /orders/. The body is a list of basket lines; lines
// are applied in order and the first invalid one stops the request, keeping
// everything added before it.
func (h *OrderHandler) AddItems(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req []addItemRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}

	items := make([]usecase.AddOrderItemInput, 0, len(req))
	for _, item := range req {
		productInfoID, err := uuid.Parse(item.ProductInfo)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"Status": false,
				"Errors": map[string]string{"items": "product_info must be a valid UUID"},
			})
		}
		items = append(items, usecase.AddOrderItemInput{
			ProductInfoID: productInfoID,
			Quantity:      item.Quantity,
		})
	}

	if _, err := h.orderUsecase.AddItems(c.Request().Context(), userID, items); err != nil {
		if handled, replyErr := validationReply(c, err); handled {
			return replyErr
		}

		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, statusTrue)
}

// ListOrders handles GET /orders/. The active basket is not part of the list.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orders, err := h.orderUsecase.ListOrders(c.Request().Context(), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, toOrderViews(orders))
}

// GetOrder handles GET /orders/:order_id/.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "order_id must be a valid UUID")
	}

	order, err := h.orderUsecase.GetOrder(c.Request().Context(), userID, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, toOrderView(order, true))
}

type submitBasketRequest struct {
	Contacts string `json:"contacts" validate:"required"`
}

// SubmitBasket handles PATCH /basket/. Attaching a delivery contact moves the
// basket into the new state.
func (h *OrderHandler) SubmitBasket(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req submitBasketRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	contactID, err := uuid.Parse(req.Contacts)
	if err != nil {
		return response.BindingError(c, "INVALID_INPUT", "contacts must be a valid contact UUID")
	}

	if _, err := h.orderUsecase.SubmitBasket(c.Request().Context(), userID, contactID); err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, statusTrue)
}

type confirmOrderRequest struct {
	Action string `json:"action" validate:"required"`
}

// ConfirmOrder handles POST /order_confirmation/. Approving confirms the
// pending order; disapproving turns it back into an editable basket.
func (h *OrderHandler) ConfirmOrder(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req confirmOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid request format: "+err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	out, err := h.orderUsecase.ConfirmOrder(c.Request().Context(), userID, req.Action)
	if err != nil {
		return errors.WithStack(err)
	}

	if req.Action == usecase.OrderActionDisapprove {
		return c.JSON(http.StatusOK, map[string]any{"Status": "Now you can change your order"})
	}

	h.logger.InfoContext(c.Request().Context(), "order confirmed",
		slog.String("order_id", out.OrderID.String()),
	)

	return c.JSON(http.StatusOK, statusTrue)
}
