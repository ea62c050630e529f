// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderState represents the lifecycle state of an order.
type OrderState string

const (
	// OrderStateBasket is the initial, mutable cart. A user has at most one.
	OrderStateBasket OrderState = "basket"
	// OrderStateNew is a submitted order with a contact attached, awaiting confirmation.
	OrderStateNew OrderState = "new"
	// OrderStateConfirmed is the terminal success state.
	OrderStateConfirmed OrderState = "confirmed"
)

// String returns the string representation of the OrderState.
func (s OrderState) String() string {
	return string(s)
}

// IsValid checks if the OrderState is a valid value.
func (s OrderState) IsValid() bool {
	switch s {
	case OrderStateBasket, OrderStateNew, OrderStateConfirmed:
		return true
	default:
		return false
	}
}

// Order belongs to one user and walks basket -> new -> confirmed.
// TotalSum is always computed at read time from the items, never stored.
type Order struct {
	ID        uuid.UUID    // The Global Unique Identifier (GUID) for the order.
	UserID    uuid.UUID    // The user who owns this order.
	State     OrderState   // Current lifecycle state.
	ContactID *uuid.UUID   // Delivery contact; nil while the order is a basket.
	Contact   *Contact     // The resolved contact, when loaded.
	Items     []*OrderItem // Line items, when loaded.
	TotalSum  int          // Sum of quantity x listing price over the items; derived, never persisted.
	CreatedAt time.Time    // Timestamp of when this order (basket) was created.
	UpdatedAt time.Time    // Timestamp of the last state change.
}

// OrderItem is one line of an order: a quantity of one shop listing.
type OrderItem struct {
	ID            uuid.UUID    // The Global Unique Identifier (GUID) for the line item.
	OrderID       uuid.UUID    // The order the line belongs to.
	ProductInfoID uuid.UUID    // The listing being ordered.
	ProductInfo   *ProductInfo // The resolved listing, when loaded.
	Quantity      int          // Ordered units; always > 0.
	CreatedAt     time.Time    // Timestamp of when the line was added.
}

// LineTotal returns the value of this line, quantity x listing price.
// Returns 0 when the listing is not loaded.
func (i *OrderItem) LineTotal() int {
	if i.ProductInfo == nil {
		return 0
	}

	return i.Quantity * i.ProductInfo.Price
}
