package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderModel mirrors the 'orders' table.
// The partial unique index enforces at most one basket per user at the database
// level; submitted orders (state != 'basket') are not constrained by it.
type OrderModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_orders_one_basket_per_user,where:state = 'basket'"`
	State     string     `gorm:"type:varchar(15);not null;default:'basket'"`
	ContactID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Contact *ContactModel     `gorm:"foreignKey:ContactID"`
	Items   []*OrderItemModel `gorm:"foreignKey:OrderID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderModel) TableName() string {
	return "orders"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *OrderModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// OrderItemModel mirrors the 'order_items' table: a quantity of one listing within an order.
type OrderItemModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductInfoID uuid.UUID `gorm:"type:uuid;not null"`
	Quantity      int       `gorm:"not null;check:quantity > 0"`
	CreatedAt     time.Time

	ProductInfo *ProductInfoModel `gorm:"foreignKey:ProductInfoID"`
}

// TableName explicitly sets the table name for GORM.
func (OrderItemModel) TableName() string {
	return "order_items"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *OrderItemModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
