// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"

	"bazaar/internal/domain/entity"

	"github.com/google/uuid"
)

// Pagination bounds for catalog browsing.
const (
	// DefaultPerPage is used when the client does not ask for a page size.
	DefaultPerPage = 20
	// MaxPerPage caps the page size a client may request.
	MaxPerPage = 100
)

// PageInput selects one page of a catalog listing. Zero values fall back
// to page 1 with DefaultPerPage items.
type PageInput struct {
	Page    int
	PerPage int
}

// Normalize clamps the paging request into the allowed bounds.
func (p PageInput) Normalize() PageInput {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}

	return p
}

// Offset returns the number of rows to skip for this page.
func (p PageInput) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// ListShopsInput filters and pages the shop listing.
type ListShopsInput struct {
	State *bool // Only shops with this active flag; nil matches all.
	Page  PageInput
}

// ListProductsInput filters and pages the listing query.
type ListProductsInput struct {
	ShopID     *uuid.UUID
	CategoryID *uuid.UUID
	Page       PageInput
}

// ShopPage is one page of shops.
type ShopPage struct {
	Count   int
	Page    int
	PerPage int
	Results []*entity.Shop
}

// CategoryPage is one page of categories with their shops resolved.
type CategoryPage struct {
	Count   int
	Page    int
	PerPage int
	Results []*entity.Category
}

// ProductPage is one page of listings with product, shop and parameters resolved.
type ProductPage struct {
	Count   int
	Page    int
	PerPage int
	Results []*entity.ProductInfo
}

// CatalogUsecase defines the read-only catalog browsing operations.
// All writes to the catalog happen through IngestUsecase.
type CatalogUsecase interface {
	ListShops(ctx context.Context, input ListShopsInput) (*ShopPage, error)
	ListCategories(ctx context.Context, page PageInput) (*CategoryPage, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductPage, error)
}
