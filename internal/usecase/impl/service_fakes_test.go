package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"bazaar/config"
	"bazaar/internal/domain/entity"
	"bazaar/internal/domain/repository"
	"bazaar/internal/domain/service"

	"github.com/google/uuid"
)

// The fakes below are small in-memory stand-ins for the persistence and
// service interfaces. They keep just enough behavior for the business
// rules under test: natural-key lookups, ownership, basket uniqueness.

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(maxActiveSessions int) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:        4,
			MaxActiveSessions: maxActiveSessions,
		},
	}
}

// --- transaction manager ---

type fakeTxManager struct {
	factory *fakeRepoFactory
}

func (m *fakeTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

type fakeRepoFactory struct {
	users    *fakeUserRepo
	auths    *fakeAuthRepo
	tokens   *fakeRefreshTokenRepo
	contacts *fakeContactRepo
	catalog  *fakeCatalogRepo
	orders   *fakeOrderRepo
}

func newFakeRepoFactory() *fakeRepoFactory {
	catalog := &fakeCatalogRepo{links: map[uuid.UUID]map[uuid.UUID]bool{}}

	return &fakeRepoFactory{
		users:    &fakeUserRepo{},
		auths:    &fakeAuthRepo{},
		tokens:   &fakeRefreshTokenRepo{},
		contacts: &fakeContactRepo{},
		catalog:  catalog,
		orders:   &fakeOrderRepo{catalog: catalog},
	}
}

func (f *fakeRepoFactory) NewUserRepository() repository.UserRepository {
	return f.users
}

func (f *fakeRepoFactory) NewAuthRepository() repository.AuthRepository {
	return f.auths
}

func (f *fakeRepoFactory) NewRefreshTokenRepository() repository.RefreshTokenRepository {
	return f.tokens
}

func (f *fakeRepoFactory) NewContactRepository() repository.ContactRepository {
	return f.contacts
}

func (f *fakeRepoFactory) NewCatalogRepository() repository.CatalogRepository {
	return f.catalog
}

func (f *fakeRepoFactory) NewOrderRepository() repository.OrderRepository {
	return f.orders
}

// --- user repository ---

type fakeUserRepo struct {
	users []*entity.User
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	for _, user := range r.users {
		if user.ID == id {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}

	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users = append(r.users, user)

	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	for i, existing := range r.users {
		if existing.ID == user.ID {
			r.users[i] = user

			return nil
		}
	}

	return repository.ErrUserNotFound
}

// --- auth repository ---

type fakeAuthRepo struct {
	auths []*entity.Authentication
}

func (r *fakeAuthRepo) CreateAuthentication(_ context.Context, auth *entity.Authentication) error {
	if auth.ID == uuid.Nil {
		auth.ID = uuid.New()
	}
	r.auths = append(r.auths, auth)

	return nil
}

func (r *fakeAuthRepo) FindAuthentication(_ context.Context, provider, providerUserID string) (*entity.Authentication, error) {
	for _, auth := range r.auths {
		if auth.Provider == provider && auth.ProviderUserID == providerUserID {
			return auth, nil
		}
	}

	return nil, repository.ErrAuthNotFound
}

func (r *fakeAuthRepo) UpdateAuthentication(_ context.Context, auth *entity.Authentication) error {
	for i, existing := range r.auths {
		if existing.ID == auth.ID {
			r.auths[i] = auth

			return nil
		}
	}

	return repository.ErrAuthNotFound
}

// --- refresh token repository ---

type fakeRefreshTokenRepo struct {
	tokens []*entity.RefreshToken
}

func (r *fakeRefreshTokenRepo) CreateRefreshToken(_ context.Context, token *entity.RefreshToken) error {
	if token.ID == uuid.Nil {
		token.ID = uuid.New()
	}
	token.CreatedAt = time.Now()
	r.tokens = append(r.tokens, token)

	return nil
}

func (r *fakeRefreshTokenRepo) FindRefreshTokenByHash(_ context.Context, tokenHash string) (*entity.RefreshToken, error) {
	for _, token := range r.tokens {
		if token.TokenHash == tokenHash {
			if token.ExpiresAt.Before(time.Now()) {
				return nil, repository.ErrRefreshTokenExpired
			}

			return token, nil
		}
	}

	return nil, repository.ErrRefreshTokenNotFound
}

func (r *fakeRefreshTokenRepo) DeleteRefreshToken(_ context.Context, id uuid.UUID) error {
	for i, token := range r.tokens {
		if token.ID == id {
			r.tokens = append(r.tokens[:i], r.tokens[i+1:]...)

			return nil
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokenByHash(_ context.Context, tokenHash string) error {
	for i, token := range r.tokens {
		if token.TokenHash == tokenHash {
			r.tokens = append(r.tokens[:i], r.tokens[i+1:]...)

			return nil
		}
	}

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteRefreshTokensByUserID(_ context.Context, userID uuid.UUID) error {
	kept := r.tokens[:0]
	for _, token := range r.tokens {
		if token.UserID != userID {
			kept = append(kept, token)
		}
	}
	r.tokens = kept

	return nil
}

func (r *fakeRefreshTokenRepo) DeleteExpiredRefreshTokens(_ context.Context) error {
	kept := r.tokens[:0]
	for _, token := range r.tokens {
		if token.ExpiresAt.After(time.Now()) {
			kept = append(kept, token)
		}
	}
	r.tokens = kept

	return nil
}

func (r *fakeRefreshTokenRepo) CountActiveSessionsByUserID(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, token := range r.tokens {
		if token.UserID == userID && token.ExpiresAt.After(time.Now()) {
			count++
		}
	}

	return count, nil
}

// --- contact repository ---

type fakeContactRepo struct {
	contacts []*entity.Contact
}

func (r *fakeContactRepo) Create(_ context.Context, contact *entity.Contact) error {
	if contact.ID == uuid.Nil {
		contact.ID = uuid.New()
	}
	r.contacts = append(r.contacts, contact)

	return nil
}

func (r *fakeContactRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Contact, error) {
	for _, contact := range r.contacts {
		if contact.ID == id {
			return contact, nil
		}
	}

	return nil, repository.ErrContactNotFound
}

func (r *fakeContactRepo) FindByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Contact, error) {
	var owned []*entity.Contact
	for _, contact := range r.contacts {
		if contact.UserID == userID {
			owned = append(owned, contact)
		}
	}

	return owned, nil
}

func (r *fakeContactRepo) Update(_ context.Context, contact *entity.Contact) error {
	for i, existing := range r.contacts {
		if existing.ID == contact.ID {
			r.contacts[i] = contact

			return nil
		}
	}

	return repository.ErrContactNotFound
}

func (r *fakeContactRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, contact := range r.contacts {
		if contact.ID == id {
			r.contacts = append(r.contacts[:i], r.contacts[i+1:]...)

			return nil
		}
	}

	return nil
}

// --- catalog repository ---

type fakeCatalogRepo struct {
	shops         []*entity.Shop
	categories    []*entity.Category
	products      []*entity.Product
	infos         []*entity.ProductInfo
	parameters    []*entity.Parameter
	productParams []*entity.ProductParameter
	links         map[uuid.UUID]map[uuid.UUID]bool // shop -> categories
}

func (r *fakeCatalogRepo) UpsertShop(_ context.Context, name string, ownerID uuid.UUID) (*entity.Shop, error) {
	for _, shop := range r.shops {
		if shop.Name == name {
			return shop, nil
		}
	}

	shop := &entity.Shop{ID: uuid.New(), Name: name, OwnerID: ownerID, State: true}
	r.shops = append(r.shops, shop)

	return shop, nil
}

func (r *fakeCatalogRepo) FindShopByName(_ context.Context, name string) (*entity.Shop, error) {
	for _, shop := range r.shops {
		if shop.Name == name {
			return shop, nil
		}
	}

	return nil, repository.ErrShopNotFound
}

func (r *fakeCatalogRepo) UpsertCategory(_ context.Context, externalID int, name string, shopID uuid.UUID) (*entity.Category, error) {
	var category *entity.Category
	for _, existing := range r.categories {
		if existing.ExternalID == externalID && existing.Name == name {
			category = existing

			break
		}
	}
	if category == nil {
		category = &entity.Category{ID: uuid.New(), ExternalID: externalID, Name: name}
		r.categories = append(r.categories, category)
	}

	if r.links[shopID] == nil {
		r.links[shopID] = map[uuid.UUID]bool{}
	}
	r.links[shopID][category.ID] = true

	return category, nil
}

func (r *fakeCatalogRepo) UpsertProduct(_ context.Context, name string, categoryID uuid.UUID) (*entity.Product, error) {
	for _, product := range r.products {
		if product.Name == name && product.CategoryID == categoryID {
			return product, nil
		}
	}

	product := &entity.Product{ID: uuid.New(), Name: name, CategoryID: categoryID}
	r.products = append(r.products, product)

	return product, nil
}

func (r *fakeCatalogRepo) CreateProductInfo(_ context.Context, info *entity.ProductInfo) error {
	if info.ID == uuid.Nil {
		info.ID = uuid.New()
	}
	r.infos = append(r.infos, info)

	return nil
}

func (r *fakeCatalogRepo) UpsertParameter(_ context.Context, name string) (*entity.Parameter, error) {
	for _, parameter := range r.parameters {
		if parameter.Name == name {
			return parameter, nil
		}
	}

	parameter := &entity.Parameter{ID: uuid.New(), Name: name}
	r.parameters = append(r.parameters, parameter)

	return parameter, nil
}

func (r *fakeCatalogRepo) CreateProductParameter(_ context.Context, param *entity.ProductParameter) error {
	if param.ID == uuid.Nil {
		param.ID = uuid.New()
	}
	r.productParams = append(r.productParams, param)

	return nil
}

func (r *fakeCatalogRepo) FindProductInfoByID(_ context.Context, id uuid.UUID) (*entity.ProductInfo, error) {
	for _, info := range r.infos {
		if info.ID == id {
			return info, nil
		}
	}

	return nil, repository.ErrProductInfoNotFound
}

func (r *fakeCatalogRepo) ListShops(_ context.Context) ([]*entity.Shop, error) {
	return r.shops, nil
}

func (r *fakeCatalogRepo) ListCategories(_ context.Context) ([]*entity.Category, error) {
	return r.categories, nil
}

func (r *fakeCatalogRepo) matches(info *entity.ProductInfo, filter repository.ProductInfoFilter) bool {
	if filter.ShopID != nil && info.ShopID != *filter.ShopID {
		return false
	}
	if filter.CategoryID != nil {
		for _, product := range r.products {
			if product.ID == info.ProductID {
				return product.CategoryID == *filter.CategoryID
			}
		}

		return false
	}

	return true
}

func (r *fakeCatalogRepo) ListProductInfos(_ context.Context, filter repository.ProductInfoFilter) ([]*entity.ProductInfo, error) {
	var matched []*entity.ProductInfo
	for _, info := range r.infos {
		if r.matches(info, filter) {
			matched = append(matched, info)
		}
	}

	if filter.Limit > 0 {
		if filter.Offset >= len(matched) {
			return nil, nil
		}
		matched = matched[filter.Offset:]
		if len(matched) > filter.Limit {
			matched = matched[:filter.Limit]
		}
	}

	return matched, nil
}

func (r *fakeCatalogRepo) CountProductInfos(_ context.Context, filter repository.ProductInfoFilter) (int, error) {
	count := 0
	for _, info := range r.infos {
		if r.matches(info, filter) {
			count++
		}
	}

	return count, nil
}

// --- order repository ---

type fakeOrderRepo struct {
	orders  []*entity.Order
	items   []*entity.OrderItem
	catalog *fakeCatalogRepo
}

func (r *fakeOrderRepo) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*entity.Order, error) {
	basket, err := r.FindBasketByUserID(ctx, userID)
	if err == nil {
		return basket, nil
	}

	basket = &entity.Order{ID: uuid.New(), UserID: userID, State: entity.OrderStateBasket}
	r.orders = append(r.orders, basket)

	return basket, nil
}

func (r *fakeOrderRepo) FindBasketByUserID(_ context.Context, userID uuid.UUID) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.UserID == userID && order.State == entity.OrderStateBasket {
			return order, nil
		}
	}

	return nil, repository.ErrBasketNotFound
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Order, error) {
	for _, order := range r.orders {
		if order.ID == id {
			return r.withTotals(order), nil
		}
	}

	return nil, repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) ListByUserID(_ context.Context, userID uuid.UUID) ([]*entity.Order, error) {
	var listed []*entity.Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		order := r.orders[i]
		if order.UserID == userID && order.State != entity.OrderStateBasket {
			listed = append(listed, r.withTotals(order))
		}
	}

	return listed, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *entity.Order) error {
	for _, existing := range r.orders {
		if existing.ID == order.ID {
			existing.State = order.State
			existing.ContactID = order.ContactID

			return nil
		}
	}

	return repository.ErrOrderNotFound
}

func (r *fakeOrderRepo) AddItem(_ context.Context, item *entity.OrderItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items = append(r.items, item)

	return nil
}

func (r *fakeOrderRepo) withTotals(order *entity.Order) *entity.Order {
	loaded := *order
	loaded.Items = nil
	loaded.TotalSum = 0
	for _, item := range r.items {
		if item.OrderID != order.ID {
			continue
		}
		loaded.Items = append(loaded.Items, item)
		for _, info := range r.catalog.infos {
			if info.ID == item.ProductInfoID {
				loaded.TotalSum += item.Quantity * info.Price
			}
		}
	}

	return &loaded
}

// --- domain services ---

type fakePasswordHasher struct{}

func (fakePasswordHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakePasswordHasher) Check(password, hash string) bool {
	return hash == "hashed:"+password
}

type fakeTokenService struct {
	issued int
}

func (s *fakeTokenService) GenerateTokens(userID uuid.UUID, _ []string) (string, string, error) {
	s.issued++

	return fmt.Sprintf("access-%s-%d", userID, s.issued), fmt.Sprintf("refresh-%s-%d", userID, s.issued), nil
}

func (s *fakeTokenService) ValidateToken(_ string) (*service.Claims, error) {
	return nil, fmt.Errorf("not implemented in fake")
}

func (s *fakeTokenService) HashToken(token string) string {
	return "hash:" + token
}

func (s *fakeTokenService) GetRefreshTokenDuration() time.Duration {
	return 7 * 24 * time.Hour
}

type fakePublisher struct {
	events []*service.MailEvent
}

func (p *fakePublisher) PublishMailEvent(_ context.Context, event *service.MailEvent) error {
	p.events = append(p.events, event)

	return nil
}

func (p *fakePublisher) Close() error {
	return nil
}

type fakeFeedService struct {
	feeds map[string]*service.FeedFile
	err   error
}

func (s *fakeFeedService) Fetch(_ context.Context, fileName string) (*service.FeedFile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if feed, ok := s.feeds[fileName]; ok {
		return feed, nil
	}

	return nil, fmt.Errorf("no such feed: %s", fileName)
}
