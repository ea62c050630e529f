package postgres

import (
	"context"
	"testing"

	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// seedListing inserts the minimum catalog rows needed to hang an order item on.
func seedListing(t *testing.T, db *gorm.DB, price int) *entity.ProductInfo {
	t.Helper()
	ctx := context.Background()
	catalog := NewCatalogRepository(db)

	shop, err := catalog.UpsertShop(ctx, "Svyaznoy", uuid.New())
	require.NoError(t, err)
	category, err := catalog.UpsertCategory(ctx, 224, "Smartphones", shop.ID)
	require.NoError(t, err)
	product, err := catalog.UpsertProduct(ctx, "Apple iPhone XS Max 512GB", category.ID)
	require.NoError(t, err)

	info := &entity.ProductInfo{
		ProductID:  product.ID,
		ShopID:     shop.ID,
		ExternalID: 4216292,
		Quantity:   14,
		Price:      price,
		PriceRRC:   price + 100,
	}
	require.NoError(t, catalog.CreateProductInfo(ctx, info))

	return info
}

func TestOrderRepository_GetOrCreateBasket_ReusesExisting(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	first, err := repo.GetOrCreateBasket(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStateBasket, first.State)

	second, err := repo.GetOrCreateBasket(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestOrderRepository_FindBasketByUserID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.FindBasketByUserID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrBasketNotFound)
}

func TestOrderRepository_TotalSum_IsAggregatedFromItems(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	listing := seedListing(t, db, 250)
	basket, err := repo.GetOrCreateBasket(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, repo.AddItem(ctx, &entity.OrderItem{
		OrderID: basket.ID, ProductInfoID: listing.ID, Quantity: 3,
	}))
	require.NoError(t, repo.AddItem(ctx, &entity.OrderItem{
		OrderID: basket.ID, ProductInfoID: listing.ID, Quantity: 1,
	}))

	order, err := repo.FindByID(ctx, basket.ID)
	require.NoError(t, err)
	assert.Equal(t, 4*250, order.TotalSum)
	assert.Len(t, order.Items, 2)
	require.NotNil(t, order.Items[0].ProductInfo)
	assert.Equal(t, 250, order.Items[0].ProductInfo.Price)
}

func TestOrderRepository_ListByUserID_ExcludesBaskets(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)
	contacts := NewContactRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	listing := seedListing(t, db, 100)

	basket, err := repo.GetOrCreateBasket(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, repo.AddItem(ctx, &entity.OrderItem{
		OrderID: basket.ID, ProductInfoID: listing.ID, Quantity: 2,
	}))

	// Still a basket: the listing must be empty.
	orders, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, orders)

	contact := &entity.Contact{UserID: userID, City: "Moscow", Street: "Tverskaya", House: "1", Phone: "+79990001122"}
	require.NoError(t, contacts.Create(ctx, contact))

	basket.State = entity.OrderStateNew
	basket.ContactID = &contact.ID
	require.NoError(t, repo.Update(ctx, basket))

	orders, err = repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, entity.OrderStateNew, orders[0].State)
	assert.Equal(t, 200, orders[0].TotalSum)
	require.NotNil(t, orders[0].Contact)
	assert.Equal(t, "Moscow", orders[0].Contact.City)
}

func TestOrderRepository_Update_UnknownOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewOrderRepository(db)

	err := repo.Update(context.Background(), &entity.Order{
		ID:    uuid.New(),
		State: entity.OrderStateConfirmed,
	})
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestTransactionManager_RollsBackOnError(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()
	userID := uuid.New()

	sentinel := repository.ErrOrderNotFound
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if _, err := f.NewOrderRepository().GetOrCreateBasket(ctx, userID); err != nil {
			return err
		}

		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	// The basket created inside the failed transaction must be gone.
	_, err = NewOrderRepository(db).FindBasketByUserID(ctx, userID)
	assert.ErrorIs(t, err, repository.ErrBasketNotFound)
}

func TestTransactionManager_CommitsOnSuccess(t *testing.T) {
	db := setupTestDB(t)
	tm := NewTransactionManager(db)
	ctx := context.Background()
	userID := uuid.New()

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		_, err := f.NewOrderRepository().GetOrCreateBasket(ctx, userID)

		return err
	})
	require.NoError(t, err)

	basket, err := NewOrderRepository(db).FindBasketByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStateBasket, basket.State)
}
