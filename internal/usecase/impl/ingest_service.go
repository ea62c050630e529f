// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"

	deliverycontext "bazaar/internal/delivery/context"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ingestService implements the IngestUsecase interface. One call applies
// one feed file inside one transaction: the catalog either absorbs the
// whole feed or stays untouched.
type ingestService struct {
	txManager   repository.TransactionManager
	feedService service.FeedService
	logger      *slog.Logger
}

// IngestServiceParams holds dependencies for ingestService, injected by Fx.
type IngestServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	FeedService service.FeedService
	Logger      *slog.Logger
}

// NewIngestService is the constructor for ingestService.
func NewIngestService(params IngestServiceParams) usecase.IngestUsecase {
	return &ingestService{
		txManager:   params.TxManager,
		feedService: params.FeedService,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *ingestService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Ingest fetches, validates and applies one supplier feed. The fetch step
// rejects malformed feeds before any write happens; the apply step runs in
// a single transaction keyed to the caller's shop.
func (srv *ingestService) Ingest(ctx context.Context, userID uuid.UUID, fileName string) (*usecase.IngestResult, error) {
	srv.log(ctx).Info("Starting feed ingestion", slog.String("file", fileName), slog.Any("userID", userID))

	feed, err := srv.feedService.Fetch(ctx, fileName)
	if err != nil {
		srv.log(ctx).Warn("Feed fetch failed", slog.String("file", fileName), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to fetch feed")
	}

	var result *usecase.IngestResult
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var applyErr error
		result, applyErr = srv.applyFeed(ctx, repoFactory.NewCatalogRepository(), feed, userID)

		return applyErr
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute ingestion transaction", slog.String("file", fileName), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute ingestion transaction")
	}

	srv.log(ctx).Info("Feed ingestion completed",
		slog.String("file", fileName),
		slog.String("shop", result.Shop),
		slog.Int("categories", result.Categories),
		slog.Int("listings", result.Listings),
	)

	return result, nil
}

// applyFeed writes one validated feed into the catalog. Shop, categories,
// products and parameters are matched by natural key; listings and their
// parameter values are always appended.
func (srv *ingestService) applyFeed(ctx context.Context, catalogRepo repository.CatalogRepository, feed *service.FeedFile, userID uuid.UUID) (*usecase.IngestResult, error) {
	shop, err := catalogRepo.UpsertShop(ctx, feed.Shop, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to upsert shop")
	}
	if shop.OwnerID != userID {
		return nil, errors.Wrap(domainerrors.ErrShopOwnershipViolation, "shop belongs to another supplier")
	}

	categoriesByExternalID := make(map[int]*entity.Category, len(feed.Categories))
	for _, feedCategory := range feed.Categories {
		category, err := catalogRepo.UpsertCategory(ctx, feedCategory.ID, feedCategory.Name, shop.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to upsert category %d", feedCategory.ID)
		}
		categoriesByExternalID[feedCategory.ID] = category
	}

	for _, good := range feed.Goods {
		category, ok := categoriesByExternalID[good.Category]
		if !ok {
			// Fetch validation guarantees every good references a declared
			// category, so this is a programming error, not bad input.
			return nil, errors.Errorf("good %d references undeclared category %d", good.ID, good.Category)
		}

		if err := srv.applyGood(ctx, catalogRepo, shop, category, good); err != nil {
			return nil, errors.Wrapf(err, "failed to apply good %d", good.ID)
		}
	}

	return &usecase.IngestResult{
		Shop:       shop.Name,
		Categories: len(feed.Categories),
		Listings:   len(feed.Goods),
	}, nil
}

// applyGood appends one listing with its parameter values.
func (srv *ingestService) applyGood(ctx context.Context, catalogRepo repository.CatalogRepository, shop *entity.Shop, category *entity.Category, good service.FeedGood) error {
	product, err := catalogRepo.UpsertProduct(ctx, good.Name, category.ID)
	if err != nil {
		return errors.Wrap(err, "failed to upsert product")
	}

	info := &entity.ProductInfo{
		ProductID:  product.ID,
		ShopID:     shop.ID,
		ExternalID: good.ID,
		Model:      good.Model,
		Quantity:   good.Quantity,
		Price:      good.Price,
		PriceRRC:   good.PriceRRC,
	}
	if err := catalogRepo.CreateProductInfo(ctx, info); err != nil {
		return errors.Wrap(err, "failed to create product listing")
	}

	for name, value := range good.Parameters {
		parameter, err := catalogRepo.UpsertParameter(ctx, name)
		if err != nil {
			return errors.Wrapf(err, "failed to upsert parameter %q", name)
		}

		productParameter := &entity.ProductParameter{
			ProductInfoID: info.ID,
			ParameterID:   parameter.ID,
			Value:         value,
		}
		if err := catalogRepo.CreateProductParameter(ctx, productParameter); err != nil {
			return errors.Wrapf(err, "failed to create parameter value %q", name)
		}
	}

	return nil
}
