// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Shop is a supplier storefront. Catalog rows are created and updated only
// by the ingestion flow; the owner is the shop-typed user who uploads feeds.
type Shop struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the shop.
	OwnerID   uuid.UUID // The ID of the shop-typed user that owns this catalog.
	Name      string    // The shop name; natural key for feed upserts.
	State     bool      // Whether the shop currently accepts orders.
	CreatedAt time.Time // Timestamp of when this shop was first ingested.
	UpdatedAt time.Time // Timestamp of the last modification.
}

// Category is a global product category. ExternalID is the category id
// carried by supplier feeds and forms the natural key together with Name.
type Category struct {
	ID         uuid.UUID // The Global Unique Identifier (GUID) for the category.
	ExternalID int       // The category id as supplied by feeds.
	Name       string    // The category name.
	Shops      []*Shop   // Shops that carry this category; idempotent set-add during ingestion.
	CreatedAt  time.Time // Timestamp of when this category was first ingested.
	UpdatedAt  time.Time // Timestamp of the last modification.
}

// Product is the shop-independent catalog entity; the sellable per-shop
// listing is ProductInfo.
type Product struct {
	ID         uuid.UUID // The Global Unique Identifier (GUID) for the product.
	CategoryID uuid.UUID // The category this product belongs to.
	Category   *Category // The resolved category, when loaded.
	Name       string    // The product name; natural key together with the category.
	CreatedAt  time.Time // Timestamp of when this product was first ingested.
	UpdatedAt  time.Time // Timestamp of the last modification.
}

// ProductInfo is the sellable unit: one shop's listing of a product with
// price and stock. Every feed run appends fresh rows, it never merges.
type ProductInfo struct {
	ID         uuid.UUID           // The Global Unique Identifier (GUID) for the listing.
	ProductID  uuid.UUID           // The product being listed.
	Product    *Product            // The resolved product, when loaded.
	ShopID     uuid.UUID           // The shop selling this listing.
	Shop       *Shop               // The resolved shop, when loaded.
	ExternalID int                 // The goods id as supplied by the feed.
	Model      string              // The manufacturer model string.
	Quantity   int                 // Units in stock as reported by the feed.
	Price      int                 // Purchase price in minor currency units.
	PriceRRC   int                 // Recommended retail price in minor currency units.
	Parameters []*ProductParameter // Ad-hoc attributes attached to this listing.
	CreatedAt  time.Time           // Timestamp of the feed run that produced this row.
}

// Parameter is a named attribute type, e.g. "color". Name is the natural key.
type Parameter struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the parameter.
	Name      string    // The attribute name.
	CreatedAt time.Time // Timestamp of when this parameter was first ingested.
}

// ProductParameter attaches one attribute value to one listing.
type ProductParameter struct {
	ID            uuid.UUID  // The Global Unique Identifier (GUID) for the row.
	ProductInfoID uuid.UUID  // The listing the value belongs to.
	ParameterID   uuid.UUID  // The attribute type.
	Parameter     *Parameter // The resolved parameter, when loaded.
	Value         string     // The attribute value, free text.
}
