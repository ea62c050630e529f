// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when an order is not found.
	ErrOrderNotFound = errors.New("order not found")
	// ErrBasketNotFound is returned when a user has no current basket.
	ErrBasketNotFound = errors.New("basket not found")
)

// OrderRepository defines the operations for order and line item persistence.
// TotalSum on returned orders is aggregated in the database at query time;
// it is never stored.
type OrderRepository interface {
	// GetOrCreateBasket returns the user's single basket order, creating it
	// when none exists. The basket row is locked for the duration of the
	// surrounding transaction so concurrent calls cannot produce duplicates.
	GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*entity.Order, error)

	// FindBasketByUserID retrieves the user's basket without creating one.
	FindBasketByUserID(ctx context.Context, userID uuid.UUID) (*entity.Order, error)

	// FindByID retrieves a single order with items, listings and contact preloaded.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListByUserID retrieves the user's submitted orders, newest first,
	// with totals aggregated. Baskets are never included.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error)

	// Update persists state and contact changes on an existing order.
	Update(ctx context.Context, order *entity.Order) error

	// AddItem appends a line item to an order.
	AddItem(ctx context.Context, item *entity.OrderItem) error
}
