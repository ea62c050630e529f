package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/validator"
	"bazaar/internal/domain/entity"
	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = validator.New()

	return e
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newJSONContext builds an echo context carrying a JSON body and an
// authenticated user, the way requests arrive past the auth middleware.
func newJSONContext(e *echo.Echo, method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != uuid.Nil {
		c.Set(middleware.ContextKeyUserID, userID)
	}

	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

// --- usecase fakes ---

type fakeUserUsecase struct {
	registerErr error
	loginOut    *usecase.LoginOutput
	loginErr    error
	refreshOut  *usecase.RefreshTokenOutput
	refreshErr  error
	logoutErr   error

	registered *usecase.RegisterInput
}

func (f *fakeUserUsecase) Register(_ context.Context, input usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	f.registered = &input
	if f.registerErr != nil {
		return nil, f.registerErr
	}

	return &usecase.RegisterOutput{User: &entity.User{Username: input.Username}}, nil
}

func (f *fakeUserUsecase) Login(_ context.Context, _ usecase.LoginInput) (*usecase.LoginOutput, error) {
	return f.loginOut, f.loginErr
}

func (f *fakeUserUsecase) RefreshToken(_ context.Context, _ usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	return f.refreshOut, f.refreshErr
}

func (f *fakeUserUsecase) Logout(_ context.Context, _ usecase.LogoutInput) error {
	return f.logoutErr
}

type fakeOrderUsecase struct {
	addOut     *usecase.AddItemsOutput
	addErr     error
	orders     []*entity.Order
	order      *entity.Order
	getErr     error
	submitErr  error
	confirmOut *usecase.ConfirmOrderOutput
	confirmErr error

	gotAction string
	gotItems  []usecase.AddOrderItemInput
}

func (f *fakeOrderUsecase) AddItems(_ context.Context, _ uuid.UUID, items []usecase.AddOrderItemInput) (*usecase.AddItemsOutput, error) {
	f.gotItems = items

	return f.addOut, f.addErr
}

func (f *fakeOrderUsecase) ListOrders(_ context.Context, _ uuid.UUID) ([]*entity.Order, error) {
	return f.orders, nil
}

func (f *fakeOrderUsecase) GetOrder(_ context.Context, _, _ uuid.UUID) (*entity.Order, error) {
	return f.order, f.getErr
}

func (f *fakeOrderUsecase) SubmitBasket(_ context.Context, _, _ uuid.UUID) (*entity.Order, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}

	return &entity.Order{State: entity.OrderStateNew}, nil
}

func (f *fakeOrderUsecase) ConfirmOrder(_ context.Context, _ uuid.UUID, action string) (*usecase.ConfirmOrderOutput, error) {
	f.gotAction = action

	return f.confirmOut, f.confirmErr
}

type fakeCatalogUsecase struct {
	products *usecase.ProductPage
}

func (f *fakeCatalogUsecase) ListShops(_ context.Context, input usecase.ListShopsInput) (*usecase.ShopPage, error) {
	normalized := input.Page.Normalize()

	return &usecase.ShopPage{Page: normalized.Page, PerPage: normalized.PerPage}, nil
}

func (f *fakeCatalogUsecase) ListCategories(_ context.Context, page usecase.PageInput) (*usecase.CategoryPage, error) {
	normalized := page.Normalize()

	return &usecase.CategoryPage{Page: normalized.Page, PerPage: normalized.PerPage}, nil
}

func (f *fakeCatalogUsecase) ListProducts(_ context.Context, _ usecase.ListProductsInput) (*usecase.ProductPage, error) {
	return f.products, nil
}

// --- user handler ---

func TestUserHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	uc := &fakeUserUsecase{}
	h := NewUserHandler(uc, newTestLogger())

	body := `{"email":"buyer@example.com","password":"longenough","username":"buyer","type":"customer"}`
	c, rec := newJSONContext(e, http.MethodPost, "/register/", body, uuid.Nil)

	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"Status": true}, decodeBody(t, rec))
	require.NotNil(t, uc.registered)
	assert.Equal(t, "buyer", uc.registered.Username)
}

func TestUserHandler_Register_ShortPasswordRejected(t *testing.T) {
	e := newTestEcho()
	h := NewUserHandler(&fakeUserUsecase{}, newTestLogger())

	body := `{"email":"buyer@example.com","password":"short","username":"buyer","type":"customer"}`
	c, _ := newJSONContext(e, http.MethodPost, "/register/", body, uuid.Nil)

	err := h.Register(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUserHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	uc := &fakeUserUsecase{loginOut: &usecase.LoginOutput{
		AccessToken:  "access-token",
		RefreshToken: "refresh-token",
	}}
	h := NewUserHandler(uc, newTestLogger())

	c, rec := newJSONContext(e, http.MethodPost, "/login/", `{"username":"buyer","password":"secret"}`, uuid.Nil)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, true, body["status"])
	assert.Equal(t, "you are now logged in as buyer", body["message"])
	assert.Equal(t, "access-token", body["access_token"])
	assert.Equal(t, "refresh-token", body["refresh_token"])
}

func TestUserHandler_Login_InvalidCredentials(t *testing.T) {
	e := newTestEcho()
	uc := &fakeUserUsecase{loginErr: domainerrors.ErrInvalidCredentials}
	h := NewUserHandler(uc, newTestLogger())

	c, rec := newJSONContext(e, http.MethodPost, "/login/", `{"username":"buyer","password":"wrong"}`, uuid.Nil)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, map[string]any{"status": "invalid data"}, decodeBody(t, rec))
}

func TestUserHandler_RefreshToken_Success(t *testing.T) {
	e := newTestEcho()
	uc := &fakeUserUsecase{refreshOut: &usecase.RefreshTokenOutput{AccessToken: "fresh"}}
	h := NewUserHandler(uc, newTestLogger())

	c, rec := newJSONContext(e, http.MethodPost, "/token_refresh/", `{"refresh_token":"token"}`, uuid.Nil)

	require.NoError(t, h.RefreshToken(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fresh", decodeBody(t, rec)["access_token"])
}

// --- order handler ---

func TestOrderHandler_AddItems_Success(t *testing.T) {
	e := newTestEcho()
	uc := &fakeOrderUsecase{addOut: &usecase.AddItemsOutput{Added: 2}}
	h := NewOrderHandler(uc, newTestLogger())

	listingA := uuid.New()
	listingB := uuid.New()
	body := `[{"product_info":"` + listingA.String() + `","quantity":2},` +
		`{"product_info":"` + listingB.String() + `","quantity":1}]`
	c, rec := newJSONContext(e, http.MethodPost, "/orders/", body, uuid.New())

	require.NoError(t, h.AddItems(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"Status": true}, decodeBody(t, rec))
	require.Len(t, uc.gotItems, 2)
	assert.Equal(t, listingA, uc.gotItems[0].ProductInfoID)
}

func TestOrderHandler_AddItems_BadListingID(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&fakeOrderUsecase{}, newTestLogger())

	body := `[{"product_info":"not-a-uuid","quantity":2}]`
	c, rec := newJSONContext(e, http.MethodPost, "/orders/", body, uuid.New())

	require.NoError(t, h.AddItems(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["Status"])
	assert.Contains(t, resp["Errors"].(map[string]any)["items"], "UUID")
}

func TestOrderHandler_AddItems_ValidationErrorBody(t *testing.T) {
	e := newTestEcho()
	uc := &fakeOrderUsecase{
		addOut: &usecase.AddItemsOutput{Added: 1},
		addErr: domainerrors.ErrValidationFailed.WithDetails("quantity must be greater than zero"),
	}
	h := NewOrderHandler(uc, newTestLogger())

	body := `[{"product_info":"` + uuid.NewString() + `","quantity":0}]`
	c, rec := newJSONContext(e, http.MethodPost, "/orders/", body, uuid.New())

	require.NoError(t, h.AddItems(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	resp := decodeBody(t, rec)
	assert.Equal(t, false, resp["Status"])
	assert.Equal(t, "quantity must be greater than zero", resp["Errors"].(map[string]any)["items"])
}

func TestOrderHandler_AddItems_RequiresAuth(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&fakeOrderUsecase{}, newTestLogger())

	c, _ := newJSONContext(e, http.MethodPost, "/orders/", `[]`, uuid.Nil)

	err := h.AddItems(c)
	require.Error(t, err)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOrderHandler_SubmitBasket_Success(t *testing.T) {
	e := newTestEcho()
	h := NewOrderHandler(&fakeOrderUsecase{}, newTestLogger())

	body := `{"contacts":"` + uuid.NewString() + `"}`
	c, rec := newJSONContext(e, http.MethodPatch, "/basket/", body, uuid.New())

	require.NoError(t, h.SubmitBasket(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"Status": true}, decodeBody(t, rec))
}

func TestOrderHandler_ConfirmOrder_Approve(t *testing.T) {
	e := newTestEcho()
	uc := &fakeOrderUsecase{confirmOut: &usecase.ConfirmOrderOutput{
		OrderID: uuid.New(),
		State:   entity.OrderStateConfirmed,
	}}
	h := NewOrderHandler(uc, newTestLogger())

	c, rec := newJSONContext(e, http.MethodPost, "/order_confirmation/", `{"action":"approve"}`, uuid.New())

	require.NoError(t, h.ConfirmOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"Status": true}, decodeBody(t, rec))
	assert.Equal(t, usecase.OrderActionApprove, uc.gotAction)
}

func TestOrderHandler_ConfirmOrder_Disapprove(t *testing.T) {
	e := newTestEcho()
	uc := &fakeOrderUsecase{confirmOut: &usecase.ConfirmOrderOutput{
		OrderID: uuid.New(),
		State:   entity.OrderStateBasket,
	}}
	h := NewOrderHandler(uc, newTestLogger())

	c, rec := newJSONContext(e, http.MethodPost, "/order_confirmation/", `{"action":"disapprove"}`, uuid.New())

	require.NoError(t, h.ConfirmOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"Status": "Now you can change your order"}, decodeBody(t, rec))
}

func TestOrderHandler_GetOrder_RendersItems(t *testing.T) {
	e := newTestEcho()
	shop := &entity.Shop{ID: uuid.New(), Name: "Svyaznoy", State: true}
	info := &entity.ProductInfo{
		ID:       uuid.New(),
		Model:    "apple/iphone/xs-max",
		Shop:     shop,
		Quantity: 14,
		Price:    110000,
		Product:  &entity.Product{Name: "iPhone XS Max", Category: &entity.Category{Name: "Smartphones"}},
	}
	order := &entity.Order{
		ID:       uuid.New(),
		State:    entity.OrderStateNew,
		TotalSum: 220000,
		Items: []*entity.OrderItem{
			{ID: uuid.New(), Quantity: 2, ProductInfo: info},
		},
	}
	h := NewOrderHandler(&fakeOrderUsecase{order: order}, newTestLogger())

	c, rec := newJSONContext(e, http.MethodGet, "/orders/"+order.ID.String()+"/", "", uuid.New())
	c.SetParamNames("order_id")
	c.SetParamValues(order.ID.String())

	require.NoError(t, h.GetOrder(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "new", body["state"])
	assert.Equal(t, float64(220000), body["total_sum"])

	items := body["ordered_items"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, float64(2), item["quantity"])
	assert.Equal(t, "Svyaznoy", item["product_info"].(map[string]any)["shop"])
}

// --- catalog handler ---

func TestCatalogHandler_ListProducts_PageEnvelope(t *testing.T) {
	e := newTestEcho()
	uc := &fakeCatalogUsecase{products: &usecase.ProductPage{
		Count:   1,
		Page:    1,
		PerPage: 20,
		Results: []*entity.ProductInfo{{
			ID:    uuid.New(),
			Model: "apple/iphone/xs-max",
			Price: 110000,
		}},
	}}
	h := NewCatalogHandler(uc, newTestLogger())

	c, rec := newJSONContext(e, http.MethodGet, "/product/", "", uuid.New())

	require.NoError(t, h.ListProducts(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(20), body["per_page"])
	require.Len(t, body["results"].([]any), 1)
}

func TestCatalogHandler_ListProducts_BadShopID(t *testing.T) {
	e := newTestEcho()
	h := NewCatalogHandler(&fakeCatalogUsecase{}, newTestLogger())

	c, rec := newJSONContext(e, http.MethodGet, "/product/?shop_id=nope", "", uuid.New())

	require.NoError(t, h.ListProducts(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
