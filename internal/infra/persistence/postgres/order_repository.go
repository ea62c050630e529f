package postgres

import (
	"context"

	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/repository"
	"bazaar/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// orderRepository implements the domain.OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// GetOrCreateBasket returns the user's single basket order, creating it when none exists.
// On PostgreSQL the basket row is locked for the duration of the surrounding
// transaction, so two concurrent add-item calls serialize instead of racing.
// A lost create race surfaces as a unique violation from the partial index and
// is resolved by re-reading the winner's row.
func (repo *orderRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*entity.Order, error) {
	query := repo.db.WithContext(ctx)
	if repo.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var orderM model.OrderModel
	err := query.
		Where("user_id = ? AND state = ?", userID, entity.OrderStateBasket.String()).
		First(&orderM).Error

	if err == nil {
		return toOrderDomain(&orderM, 0), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to find basket")
	}

	orderM = model.OrderModel{UserID: userID, State: entity.OrderStateBasket.String()}
	if createErr := repo.db.WithContext(ctx).Create(&orderM).Error; createErr != nil {
		if isUniqueConstraintViolation(createErr) {
			// Another transaction created the basket first; use its row.
			return repo.FindBasketByUserID(ctx, userID)
		}

		return nil, domainerrors.NewDatabaseExecuteError(createErr, "failed to create basket")
	}

	return toOrderDomain(&orderM, 0), nil
}

// FindBasketByUserID retrieves the user's basket without creating one.
func (repo *orderRepository) FindBasketByUserID(ctx context.Context, userID uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND state = ?", userID, entity.OrderStateBasket.String()).
		First(&orderM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrBasketNotFound
		}

		return nil, errors.Wrap(err, "failed to find basket")
	}

	return toOrderDomain(&orderM, 0), nil
}

// FindByID retrieves a single order with items, listings and contact preloaded.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Contact").
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Where("id = ?", id).
		First(&orderM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	totals, err := repo.sumTotals(ctx, []uuid.UUID{orderM.ID})
	if err != nil {
		return nil, err
	}

	return toOrderDomain(&orderM, totals[orderM.ID]), nil
}

// ListByUserID retrieves the user's submitted orders, newest first, with totals aggregated.
// Baskets are never included.
func (repo *orderRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var orderMs []model.OrderModel
	err := repo.db.WithContext(ctx).
		Preload("Contact").
		Preload("Items.ProductInfo.Product.Category").
		Preload("Items.ProductInfo.Shop").
		Where("user_id = ? AND state <> ?", userID, entity.OrderStateBasket.String()).
		Order("created_at DESC").
		Find(&orderMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	ids := make([]uuid.UUID, 0, len(orderMs))
	for i := range orderMs {
		ids = append(ids, orderMs[i].ID)
	}

	totals, err := repo.sumTotals(ctx, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]*entity.Order, 0, len(orderMs))
	for i := range orderMs {
		orders = append(orders, toOrderDomain(&orderMs[i], totals[orderMs[i].ID]))
	}

	return orders, nil
}

// Update persists state and contact changes on an existing order.
func (repo *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	updates := map[string]any{
		"state":      order.State.String(),
		"contact_id": order.ContactID,
	}

	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(updates)
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// AddItem appends a line item to an order.
func (repo *orderRepository) AddItem(ctx context.Context, item *entity.OrderItem) error {
	itemM := &model.OrderItemModel{
		ID:            item.ID,
		OrderID:       item.OrderID,
		ProductInfoID: item.ProductInfoID,
		Quantity:      item.Quantity,
	}

	if err := repo.db.WithContext(ctx).Create(itemM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrProductInfoNotFound.WrapMessage("line item references unknown listing")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WrapMessage("quantity must be positive")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to add order item")
	}

	item.ID = itemM.ID
	item.CreatedAt = itemM.CreatedAt

	return nil
}

// sumTotals aggregates quantity x price per order in a single query.
// Totals are always recomputed from the current rows, never stored.
func (repo *orderRepository) sumTotals(ctx context.Context, orderIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	totals := make(map[uuid.UUID]int, len(orderIDs))
	if len(orderIDs) == 0 {
		return totals, nil
	}

	var rows []struct {
		OrderID uuid.UUID
		Total   int
	}
	err := repo.db.WithContext(ctx).
		Table("order_items").
		Select("order_items.order_id AS order_id, SUM(order_items.quantity * product_infos.price) AS total").
		Joins("JOIN product_infos ON product_infos.id = order_items.product_info_id").
		Where("order_items.order_id IN ?", orderIDs).
		Group("order_items.order_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate order totals")
	}

	for _, row := range rows {
		totals[row.OrderID] = row.Total
	}

	return totals, nil
}

// --- Mapper Functions ---

// toOrderDomain converts a GORM OrderModel to a domain Order entity.
func toOrderDomain(data *model.OrderModel, totalSum int) *entity.Order {
	if data == nil {
		return nil
	}

	items := make([]*entity.OrderItem, 0, len(data.Items))
	for _, itemM := range data.Items {
		items = append(items, &entity.OrderItem{
			ID:            itemM.ID,
			OrderID:       itemM.OrderID,
			ProductInfoID: itemM.ProductInfoID,
			ProductInfo:   toProductInfoDomain(itemM.ProductInfo),
			Quantity:      itemM.Quantity,
			CreatedAt:     itemM.CreatedAt,
		})
	}

	return &entity.Order{
		ID:        data.ID,
		UserID:    data.UserID,
		State:     entity.OrderState(data.State),
		ContactID: data.ContactID,
		Contact:   toContactDomain(data.Contact),
		Items:     items,
		TotalSum:  totalSum,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}
