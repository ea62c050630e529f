// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"fmt"
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

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager   repository.TransactionManager
	orderRepo   repository.OrderRepository
	catalogRepo repository.CatalogRepository
	userRepo    repository.UserRepository
	publisher   service.EventPublisher
	logger      *slog.Logger
}

// OrderServiceParams holds dependencies for orderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	OrderRepo   repository.OrderRepository
	CatalogRepo repository.CatalogRepository
	UserRepo    repository.UserRepository
	Publisher   service.EventPublisher
	Logger      *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	return &orderService{
		txManager:   params.TxManager,
		orderRepo:   params.OrderRepo,
		catalogRepo: params.CatalogRepo,
		userRepo:    params.UserRepo,
		publisher:   params.Publisher,
		logger:      params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// AddItems appends lines to the caller's basket. The basket lookup runs in
// a row-locked transaction so two concurrent calls share one basket. The
// lines themselves commit one at a time: when an item fails validation the
// earlier lines stay and the failing item is reported.
func (srv *orderService) AddItems(ctx context.Context, userID uuid.UUID, items []usecase.AddOrderItemInput) (*usecase.AddItemsOutput, error) {
	if len(items) == 0 {
		return nil, errors.Wrap(domainerrors.ErrValidationFailed.WithDetails("items list is empty"), "no items to add")
	}

	var basket *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		var getErr error
		basket, getErr = repoFactory.NewOrderRepository().GetOrCreateBasket(ctx, userID)
		if getErr != nil {
			return errors.Wrap(getErr, "failed to get or create basket")
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute basket transaction", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute basket transaction")
	}

	out := &usecase.AddItemsOutput{OrderID: basket.ID}
	for i, item := range items {
		if err := srv.addItem(ctx, basket.ID, item); err != nil {
			srv.log(ctx).Warn("Rejected basket item",
				slog.Any("userID", userID),
				slog.Int("index", i),
				slog.Int("added", out.Added),
				slog.Any("error", err),
			)

			return out, errors.Wrapf(err, "failed to add item %d", i)
		}
		out.Added++
	}

	srv.log(ctx).Debug("Added basket items", slog.Any("orderID", basket.ID), slog.Int("added", out.Added))

	return out, nil
}

// addItem validates and commits one basket line.
func (srv *orderService) addItem(ctx context.Context, orderID uuid.UUID, item usecase.AddOrderItemInput) error {
	if item.Quantity <= 0 {
		return errors.Wrap(
			domainerrors.ErrValidationFailed.WithDetails("quantity must be greater than zero"),
			"invalid quantity",
		)
	}

	if _, err := srv.catalogRepo.FindProductInfoByID(ctx, item.ProductInfoID); err != nil {
		if errors.Is(err, repository.ErrProductInfoNotFound) {
			return errors.Wrap(
				domainerrors.ErrProductInfoNotFound.WithDetails(fmt.Sprintf("product listing %s does not exist", item.ProductInfoID)),
				"unknown product listing",
			)
		}

		return errors.Wrap(err, "failed to find product listing")
	}

	orderItem := &entity.OrderItem{
		OrderID:       orderID,
		ProductInfoID: item.ProductInfoID,
		Quantity:      item.Quantity,
	}
	if err := srv.orderRepo.AddItem(ctx, orderItem); err != nil {
		return errors.Wrap(err, "failed to add order item")
	}

	return nil
}

// ListOrders returns the caller's submitted orders, newest first. Totals
// come aggregated from the store; the basket is never listed.
func (srv *orderService) ListOrders(ctx context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	orders, err := srv.orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list orders")
	}

	return orders, nil
}

// GetOrder returns one of the caller's submitted orders with full line
// detail. Orders of other users and the caller's own basket both surface
// as not-found, so order ids leak nothing across accounts.
func (srv *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
		}

		return nil, errors.Wrap(err, "failed to find order")
	}

	if order.UserID != userID || order.State == entity.OrderStateBasket {
		return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "order not found")
	}

	return order, nil
}

// SubmitBasket attaches a delivery contact to the caller's basket and moves
// it to the new state. The contact must exist and belong to the caller.
func (srv *orderService) SubmitBasket(ctx context.Context, userID, contactID uuid.UUID) (*entity.Order, error) {
	srv.log(ctx).Info("Submitting basket", slog.Any("userID", userID), slog.Any("contactID", contactID))

	var submitted *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		contactRepo := repoFactory.NewContactRepository()
		orderRepo := repoFactory.NewOrderRepository()

		contact, err := contactRepo.FindByID(ctx, contactID)
		if err != nil {
			if errors.Is(err, repository.ErrContactNotFound) {
				return errors.Wrap(domainerrors.ErrContactNotFound, "contact not found")
			}

			return errors.Wrap(err, "failed to find contact")
		}
		if contact.UserID != userID {
			return errors.Wrap(domainerrors.ErrContactOwnershipViolation, "contact does not belong to user")
		}

		basket, err := orderRepo.FindBasketByUserID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrBasketNotFound) {
				return errors.Wrap(domainerrors.ErrBasketNotFound, "no basket to submit")
			}

			return errors.Wrap(err, "failed to find basket")
		}

		basket.ContactID = &contactID
		basket.State = entity.OrderStateNew
		if err := orderRepo.Update(ctx, basket); err != nil {
			return errors.Wrap(err, "failed to update order")
		}

		submitted = basket

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to submit basket", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute basket submit transaction")
	}

	srv.log(ctx).Info("Basket submitted", slog.Any("orderID", submitted.ID))

	return submitted, nil
}

// ConfirmOrder applies approve or disapprove to the caller's new order.
// Approve is terminal and publishes the order-confirmed event; disapprove
// reopens the order as the basket so its lines can be changed, keeping the
// chosen contact in place.
func (srv *orderService) ConfirmOrder(ctx context.Context, userID uuid.UUID, action string) (*usecase.ConfirmOrderOutput, error) {
	if action != usecase.OrderActionApprove && action != usecase.OrderActionDisapprove {
		return nil, errors.Wrap(domainerrors.ErrInvalidOrderAction, "unknown confirmation action")
	}

	srv.log(ctx).Info("Confirming order", slog.Any("userID", userID), slog.String("action", action))

	var confirmed *entity.Order
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.NewOrderRepository()

		order, err := srv.findNewOrder(ctx, orderRepo, userID)
		if err != nil {
			return err
		}

		if action == usecase.OrderActionApprove {
			order.State = entity.OrderStateConfirmed
		} else {
			// Reopening requires the basket slot: at most one basket per
			// user is a hard invariant.
			if _, err := orderRepo.FindBasketByUserID(ctx, userID); err == nil {
				return errors.Wrap(domainerrors.ErrConflict, "a newer basket already exists")
			} else if !errors.Is(err, repository.ErrBasketNotFound) {
				return errors.Wrap(err, "failed to check for existing basket")
			}

			order.State = entity.OrderStateBasket
		}

		if err := orderRepo.Update(ctx, order); err != nil {
			return errors.Wrap(err, "failed to update order")
		}

		confirmed = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to confirm order", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute order confirmation transaction")
	}

	if confirmed.State == entity.OrderStateConfirmed {
		srv.publishOrderConfirmedMail(ctx, userID, confirmed)
	}

	srv.log(ctx).Info("Order confirmation applied", slog.Any("orderID", confirmed.ID), slog.String("state", confirmed.State.String()))

	return &usecase.ConfirmOrderOutput{OrderID: confirmed.ID, State: confirmed.State}, nil
}

// findNewOrder locates the caller's order awaiting confirmation.
func (srv *orderService) findNewOrder(ctx context.Context, orderRepo repository.OrderRepository, userID uuid.UUID) (*entity.Order, error) {
	orders, err := orderRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	for _, order := range orders {
		if order.State == entity.OrderStateNew {
			return order, nil
		}
	}

	return nil, errors.Wrap(domainerrors.ErrOrderNotFound, "no order awaiting confirmation")
}

// publishOrderConfirmedMail emits the order-confirmed event. The state
// change has already committed, so a publish failure is logged and swallowed.
func (srv *orderService) publishOrderConfirmedMail(ctx context.Context, userID uuid.UUID, order *entity.Order) {
	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		srv.log(ctx).Warn("Failed to load user for order mail", slog.Any("userID", userID), slog.Any("error", err))

		return
	}

	event := &service.MailEvent{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		Type:      service.MailEventOrderConfirmed,
		UserID:    user.ID.String(),
		Email:     user.Email,
		Username:  user.Username,
		OrderID:   order.ID.String(),
		TotalSum:  order.TotalSum,
	}

	if err := srv.publisher.PublishMailEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order mail event", slog.Any("orderID", order.ID), slog.Any("error", err))
	}
}
