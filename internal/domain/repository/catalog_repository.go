// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for catalog persistence.
var (
	// ErrShopNotFound is returned when a shop is not found.
	ErrShopNotFound = errors.New("shop not found")
	// ErrProductInfoNotFound is returned when a product listing is not found.
	ErrProductInfoNotFound = errors.New("product listing not found")
)

// CatalogRepository defines the operations for catalog persistence: the
// idempotent get-or-create upserts used by feed ingestion, and the read
// queries backing the public browsing endpoints.
//
// The upsert methods match by natural key and return the existing row when
// one is found, so re-running the same feed never duplicates Shop, Category,
// Product or Parameter rows. Listings (ProductInfo) and their parameter
// values are always appended fresh, never merged.
type CatalogRepository interface {
	// UpsertShop finds a shop by name or creates it with the given owner.
	UpsertShop(ctx context.Context, name string, ownerID uuid.UUID) (*entity.Shop, error)

	// FindShopByName retrieves a single shop by its name.
	FindShopByName(ctx context.Context, name string) (*entity.Shop, error)

	// UpsertCategory finds a category by (external id, name) or creates it,
	// and idempotently links it to the given shop.
	UpsertCategory(ctx context.Context, externalID int, name string, shopID uuid.UUID) (*entity.Category, error)

	// UpsertProduct finds a product by (name, category) or creates it.
	UpsertProduct(ctx context.Context, name string, categoryID uuid.UUID) (*entity.Product, error)

	// CreateProductInfo appends a fresh listing row for one feed entry.
	CreateProductInfo(ctx context.Context, info *entity.ProductInfo) error

	// UpsertParameter finds a parameter by name or creates it.
	UpsertParameter(ctx context.Context, name string) (*entity.Parameter, error)

	// CreateProductParameter appends one attribute value to a listing.
	CreateProductParameter(ctx context.Context, param *entity.ProductParameter) error

	// FindProductInfoByID retrieves a single listing by its unique ID.
	FindProductInfoByID(ctx context.Context, id uuid.UUID) (*entity.ProductInfo, error)

	// ListShops retrieves all shops, active first.
	ListShops(ctx context.Context) ([]*entity.Shop, error)

	// ListCategories retrieves all categories with their associated shops.
	ListCategories(ctx context.Context) ([]*entity.Category, error)

	// ListProductInfos retrieves listings with product, shop and parameters
	// preloaded, optionally filtered by shop and/or category.
	ListProductInfos(ctx context.Context, filter ProductInfoFilter) ([]*entity.ProductInfo, error)

	// CountProductInfos returns the number of listings matching the filter,
	// ignoring its Limit and Offset.
	CountProductInfos(ctx context.Context, filter ProductInfoFilter) (int, error)
}

// ProductInfoFilter narrows a listing query. Nil fields match everything;
// a zero Limit disables pagination.
type ProductInfoFilter struct {
	ShopID     *uuid.UUID // Only listings sold by this shop.
	CategoryID *uuid.UUID // Only listings whose product belongs to this category.
	Limit      int        // Page size; 0 means no limit.
	Offset     int        // Rows to skip before the page starts.
}
