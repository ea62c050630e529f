// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
	"bazaar/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// catalogService implements the CatalogUsecase interface. It only reads;
// all catalog writes go through the ingest service.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	logger      *slog.Logger
}

// CatalogServiceParams holds dependencies for catalogService, injected by Fx.
type CatalogServiceParams struct {
	fx.In

	CatalogRepo repository.CatalogRepository
	Logger      *slog.Logger
}

// NewCatalogService is the constructor for catalogService.
func NewCatalogService(params CatalogServiceParams) usecase.CatalogUsecase {
	return &catalogService{
		catalogRepo: params.CatalogRepo,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *catalogService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListShops returns one page of shops, optionally filtered by active state.
func (srv *catalogService) ListShops(ctx context.Context, input usecase.ListShopsInput) (*usecase.ShopPage, error) {
	page := input.Page.Normalize()

	shops, err := srv.catalogRepo.ListShops(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list shops", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list shops")
	}

	if input.State != nil {
		filtered := make([]*entity.Shop, 0, len(shops))
		for _, shop := range shops {
			if shop.State == *input.State {
				filtered = append(filtered, shop)
			}
		}
		shops = filtered
	}

	results := pageSlice(shops, page)

	return &usecase.ShopPage{
		Count:   len(shops),
		Page:    page.Page,
		PerPage: page.PerPage,
		Results: results,
	}, nil
}

// ListCategories returns one page of categories with their shops resolved.
func (srv *catalogService) ListCategories(ctx context.Context, page usecase.PageInput) (*usecase.CategoryPage, error) {
	page = page.Normalize()

	categories, err := srv.catalogRepo.ListCategories(ctx)
	if err != nil {
		srv.log(ctx).Error("Failed to list categories", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list categories")
	}

	results := pageSlice(categories, page)

	return &usecase.CategoryPage{
		Count:   len(categories),
		Page:    page.Page,
		PerPage: page.PerPage,
		Results: results,
	}, nil
}

// ListProducts returns one page of listings. Filtering and paging are
// pushed into SQL because the listing table grows with every feed run.
func (srv *catalogService) ListProducts(ctx context.Context, input usecase.ListProductsInput) (*usecase.ProductPage, error) {
	page := input.Page.Normalize()

	filter := repository.ProductInfoFilter{
		ShopID:     input.ShopID,
		CategoryID: input.CategoryID,
		Limit:      page.PerPage,
		Offset:     page.Offset(),
	}

	count, err := srv.catalogRepo.CountProductInfos(ctx, filter)
	if err != nil {
		srv.log(ctx).Error("Failed to count product listings", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to count product listings")
	}

	results := []*entity.ProductInfo{}
	if count > 0 {
		results, err = srv.catalogRepo.ListProductInfos(ctx, filter)
		if err != nil {
			srv.log(ctx).Error("Failed to list product listings", slog.Any("error", err))

			return nil, errors.Wrap(err, "failed to list product listings")
		}
	}

	return &usecase.ProductPage{
		Count:   count,
		Page:    page.Page,
		PerPage: page.PerPage,
		Results: results,
	}, nil
}

// pageSlice extracts one page out of an in-memory slice. Shops and
// categories stay small enough that loading them whole beats a second
// count query.
func pageSlice[T any](items []T, page usecase.PageInput) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}

	end := start + page.PerPage
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}
