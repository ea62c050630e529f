package impl

import (
	"context"
	"testing"

	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFeed() *service.FeedFile {
	return &service.FeedFile{
		Shop: "Svyaznoy",
		Categories: []service.FeedCategory{
			{ID: 224, Name: "Smartphones"},
			{ID: 15, Name: "Accessories"},
		},
		Goods: []service.FeedGood{
			{
				ID:       4216292,
				Category: 224,
				Name:     "Smartphone apple iphone xs max 512gb",
				Model:    "apple/iphone/xs-max",
				Quantity: 14,
				Price:    110000,
				PriceRRC: 116990,
				Parameters: map[string]string{
					"Screen Size (inches)": "6.5",
					"Color":                "golden",
				},
			},
			{
				ID:       4216313,
				Category: 224,
				Name:     "Smartphone apple iphone xr 256gb",
				Model:    "apple/iphone/xr",
				Quantity: 9,
				Price:    65000,
				PriceRRC: 69990,
			},
		},
	}
}

type ingestServiceFixtures struct {
	service usecase.IngestUsecase
	factory *fakeRepoFactory
	feeds   *fakeFeedService
}

func createTestIngestService(feed *service.FeedFile) ingestServiceFixtures {
	factory := newFakeRepoFactory()
	feeds := &fakeFeedService{feeds: map[string]*service.FeedFile{"shop1.yaml": feed}}

	svc := NewIngestService(IngestServiceParams{
		TxManager:   &fakeTxManager{factory: factory},
		FeedService: feeds,
		Logger:      newDiscardLogger(),
	})

	return ingestServiceFixtures{service: svc, factory: factory, feeds: feeds}
}

func TestIngestService_AppliesFeed(t *testing.T) {
	fx := createTestIngestService(sampleFeed())
	ctx := context.Background()
	supplierID := uuid.New()

	result, err := fx.service.Ingest(ctx, supplierID, "shop1.yaml")

	require.NoError(t, err)
	assert.Equal(t, "Svyaznoy", result.Shop)
	assert.Equal(t, 2, result.Categories)
	assert.Equal(t, 2, result.Listings)

	shop, err := fx.factory.catalog.FindShopByName(ctx, "Svyaznoy")
	require.NoError(t, err)
	assert.Equal(t, supplierID, shop.OwnerID)

	assert.Len(t, fx.factory.catalog.products, 2)
	assert.Len(t, fx.factory.catalog.infos, 2)
	assert.Len(t, fx.factory.catalog.parameters, 2)
	assert.Len(t, fx.factory.catalog.productParams, 2)
}

func TestIngestService_RerunAppendsListingsOnly(t *testing.T) {
	fx := createTestIngestService(sampleFeed())
	ctx := context.Background()
	supplierID := uuid.New()

	_, err := fx.service.Ingest(ctx, supplierID, "shop1.yaml")
	require.NoError(t, err)
	_, err = fx.service.Ingest(ctx, supplierID, "shop1.yaml")
	require.NoError(t, err)

	// Natural keys deduplicate; listings and parameter values append.
	assert.Len(t, fx.factory.catalog.shops, 1)
	assert.Len(t, fx.factory.catalog.categories, 2)
	assert.Len(t, fx.factory.catalog.products, 2)
	assert.Len(t, fx.factory.catalog.parameters, 2)
	assert.Len(t, fx.factory.catalog.infos, 4)
	assert.Len(t, fx.factory.catalog.productParams, 4)
}

func TestIngestService_ForeignShopRejected(t *testing.T) {
	fx := createTestIngestService(sampleFeed())
	ctx := context.Background()

	_, err := fx.service.Ingest(ctx, uuid.New(), "shop1.yaml")
	require.NoError(t, err)

	_, err = fx.service.Ingest(ctx, uuid.New(), "shop1.yaml")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrShopOwnershipViolation)
	// No second run side effects.
	assert.Len(t, fx.factory.catalog.infos, 2)
}

func TestIngestService_FetchErrorStopsIngestion(t *testing.T) {
	fx := createTestIngestService(sampleFeed())
	fx.feeds.err = domainerrors.ErrMalformedFeed.WrapMessage("feed is missing required fields")

	_, err := fx.service.Ingest(context.Background(), uuid.New(), "shop1.yaml")

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrMalformedFeed)
	assert.Empty(t, fx.factory.catalog.shops)
}
