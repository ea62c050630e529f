package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShopModel mirrors the 'shops' table. Name is the natural key used by feed upserts.
type ShopModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);unique;not null"`
	State     bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Categories []*CategoryModel `gorm:"many2many:shop_categories"`
}

// TableName explicitly sets the table name for GORM.
func (ShopModel) TableName() string {
	return "shops"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *ShopModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// CategoryModel mirrors the 'categories' table.
// (external_id, name) is the natural key carried by supplier feeds.
type CategoryModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExternalID int       `gorm:"not null;uniqueIndex:idx_categories_external_id_name"`
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_external_id_name"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Shops []*ShopModel `gorm:"many2many:shop_categories"`
}

// TableName explicitly sets the table name for GORM.
func (CategoryModel) TableName() string {
	return "categories"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *CategoryModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// ProductModel mirrors the 'products' table. (name, category_id) is the natural key.
type ProductModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	CategoryID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_products_name_category"`
	Name       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_name_category"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *CategoryModel `gorm:"foreignKey:CategoryID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductModel) TableName() string {
	return "products"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *ProductModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// ProductInfoModel mirrors the 'product_infos' table. Rows are append-only;
// every feed run inserts fresh listings rather than merging into old ones.
type ProductInfoModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ShopID     uuid.UUID `gorm:"type:uuid;not null;index"`
	ExternalID int       `gorm:"not null"`
	Model      string    `gorm:"type:varchar(80)"`
	Quantity   int       `gorm:"not null"`
	Price      int       `gorm:"not null"`
	PriceRRC   int       `gorm:"column:price_rrc;not null"`
	CreatedAt  time.Time

	Product    *ProductModel            `gorm:"foreignKey:ProductID"`
	Shop       *ShopModel               `gorm:"foreignKey:ShopID"`
	Parameters []*ProductParameterModel `gorm:"foreignKey:ProductInfoID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductInfoModel) TableName() string {
	return "product_infos"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *ProductInfoModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// ParameterModel mirrors the 'parameters' table. Name is the natural key.
type ParameterModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(100);unique;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (ParameterModel) TableName() string {
	return "parameters"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *ParameterModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}

// ProductParameterModel mirrors the 'product_parameters' table: one attribute value on one listing.
type ProductParameterModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductInfoID uuid.UUID `gorm:"type:uuid;not null;index"`
	ParameterID   uuid.UUID `gorm:"type:uuid;not null"`
	Value         string    `gorm:"type:varchar(100);not null"`

	Parameter *ParameterModel `gorm:"foreignKey:ParameterID"`
}

// TableName explicitly sets the table name for GORM.
func (ProductParameterModel) TableName() string {
	return "product_parameters"
}

// BeforeCreate assigns the UUID primary key when one was not provided.
func (m *ProductParameterModel) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	return nil
}
