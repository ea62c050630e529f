// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"time"

	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// statusTrue is the plain acknowledgement body used by the storefront client.
var statusTrue = map[string]any{"Status": true}

// currentUserID extracts the authenticated user id set by the auth middleware.
func currentUserID(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.ContextKeyUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	return userID, nil
}

// pageView is the envelope for paginated catalog listings.
type pageView struct {
	Count   int `json:"count"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
	Results any `json:"results"`
}

type shopView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	State bool      `json:"state"`
}

func toShopView(shop *entity.Shop) shopView {
	return shopView{ID: shop.ID, Name: shop.Name, State: shop.State}
}

func toShopViews(shops []*entity.Shop) []shopView {
	views := make([]shopView, 0, len(shops))
	for _, shop := range shops {
		views = append(views, toShopView(shop))
	}

	return views
}

type categoryView struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Shops []string  `json:"shops"`
}

func toCategoryViews(categories []*entity.Category) []categoryView {
	views := make([]categoryView, 0, len(categories))
	for _, category := range categories {
		shops := make([]string, 0, len(category.Shops))
		for _, shop := range category.Shops {
			shops = append(shops, shop.Name)
		}
		views = append(views, categoryView{ID: category.ID, Name: category.Name, Shops: shops})
	}

	return views
}

type productView struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

type productInfoView struct {
	ID                uuid.UUID         `json:"id"`
	Model             string            `json:"model"`
	ExternalID        int               `json:"external_id"`
	Product           productView       `json:"product"`
	Shop              string            `json:"shop"`
	Quantity          int               `json:"quantity"`
	Price             int               `json:"price"`
	PriceRRC          int               `json:"price_rrc"`
	ProductParameters map[string]string `json:"product_parameters"`
}

func toProductInfoView(info *entity.ProductInfo) productInfoView {
	view := productInfoView{
		ID:                info.ID,
		Model:             info.Model,
		ExternalID:        info.ExternalID,
		Quantity:          info.Quantity,
		Price:             info.Price,
		PriceRRC:          info.PriceRRC,
		ProductParameters: map[string]string{},
	}

	if info.Product != nil {
		view.Product.Name = info.Product.Name
		if info.Product.Category != nil {
			view.Product.Category = info.Product.Category.Name
		}
	}
	if info.Shop != nil {
		view.Shop = info.Shop.Name
	}
	for _, param := range info.Parameters {
		if param.Parameter != nil {
			view.ProductParameters[param.Parameter.Name] = param.Value
		}
	}

	return view
}

func toProductInfoViews(infos []*entity.ProductInfo) []productInfoView {
	views := make([]productInfoView, 0, len(infos))
	for _, info := range infos {
		views = append(views, toProductInfoView(info))
	}

	return views
}

type contactView struct {
	ID        uuid.UUID `json:"id"`
	City      string    `json:"city"`
	Street    string    `json:"street"`
	House     string    `json:"house"`
	Structure string    `json:"structure,omitempty"`
	Building  string    `json:"building,omitempty"`
	Apartment string    `json:"apartment,omitempty"`
	Phone     string    `json:"phone"`
}

func toContactView(contact *entity.Contact) *contactView {
	if contact == nil {
		return nil
	}

	return &contactView{
		ID:        contact.ID,
		City:      contact.City,
		Street:    contact.Street,
		House:     contact.House,
		Structure: contact.Structure,
		Building:  contact.Building,
		Apartment: contact.Apartment,
		Phone:     contact.Phone,
	}
}

type orderItemView struct {
	ID          uuid.UUID       `json:"id"`
	Quantity    int             `json:"quantity"`
	ProductInfo productInfoView `json:"product_info"`
}

type orderView struct {
	ID           uuid.UUID       `json:"id"`
	State        string          `json:"state"`
	CreatedAt    time.Time       `json:"created_at"`
	TotalSum     int             `json:"total_sum"`
	Contact      *contactView    `json:"contact"`
	OrderedItems []orderItemView `json:"ordered_items,omitempty"`
}

func toOrderView(order *entity.Order, withItems bool) orderView {
	view := orderView{
		ID:        order.ID,
		State:     order.State.String(),
		CreatedAt: order.CreatedAt,
		TotalSum:  order.TotalSum,
		Contact:   toContactView(order.Contact),
	}

	if withItems {
		view.OrderedItems = make([]orderItemView, 0, len(order.Items))
		for _, item := range order.Items {
			itemView := orderItemView{ID: item.ID, Quantity: item.Quantity}
			if item.ProductInfo != nil {
				itemView.ProductInfo = toProductInfoView(item.ProductInfo)
			}
			view.OrderedItems = append(view.OrderedItems, itemView)
		}
	}

	return view
}

func toOrderViews(orders []*entity.Order) []orderView {
	views := make([]orderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, toOrderView(order, false))
	}

	return views
}

// validationReply renders the order endpoints' field-error body when the
// failure is client-caused; other errors go to the central error handler.
func validationReply(c echo.Context, err error) (bool, error) {
	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) || appErr.HTTPCode() >= 500 {
		return false, nil
	}

	message := appErr.Message()
	if appErr.Details() != "" {
		message = appErr.Details()
	}

	return true, c.JSON(appErr.HTTPCode(), map[string]any{
		"Status": false,
		"Errors": map[string]string{"items": message},
	})
}
