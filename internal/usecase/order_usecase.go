// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// Confirmation actions accepted by ConfirmOrder.
const (
	// OrderActionApprove moves the caller's new order to confirmed.
	OrderActionApprove = "approve"
	// OrderActionDisapprove returns the caller's new order to the basket.
	OrderActionDisapprove = "disapprove"
)

// AddOrderItemInput is one requested basket line.
type AddOrderItemInput struct {
	ProductInfoID uuid.UUID
	Quantity      int
}

// AddItemsOutput reports how many requested lines were committed.
// When an item fails validation the earlier lines stay committed, so
// Added can be non-zero even on error.
type AddItemsOutput struct {
	OrderID uuid.UUID
	Added   int
}

// ConfirmOrderOutput reports the state the order ended in.
type ConfirmOrderOutput struct {
	OrderID uuid.UUID
	State   entity.OrderState
}

// OrderUsecase defines the basket and order lifecycle operations.
// Every operation is scoped to the calling user; orders are never
// visible or mutable across accounts.
type OrderUsecase interface {
	// AddItems appends lines to the caller's basket, creating the basket
	// when none exists. Items are validated and committed one at a time;
	// the first invalid item stops the run and is reported as the error.
	AddItems(ctx context.Context, userID uuid.UUID, items []AddOrderItemInput) (*AddItemsOutput, error)

	// ListOrders returns the caller's submitted orders, newest first,
	// with totals computed at read time. The basket is never included.
	ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// GetOrder returns one of the caller's orders with full line detail.
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error)

	// SubmitBasket attaches a delivery contact to the caller's basket and
	// moves it to the new state.
	SubmitBasket(ctx context.Context, userID, contactID uuid.UUID) (*entity.Order, error)

	// ConfirmOrder applies approve or disapprove to the caller's new order.
	ConfirmOrder(ctx context.Context, userID uuid.UUID, action string) (*ConfirmOrderOutput, error)
}
