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
)

// catalogRepository implements the domain.CatalogRepository interface using GORM.
//
// The Upsert* methods follow find-then-create: a lookup by natural key first,
// an insert only when the lookup misses. Ingestion runs inside one transaction
// per feed, so the pair is atomic and a lost race simply surfaces as a unique
// constraint violation that fails the whole feed.
type catalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository is the constructor for catalogRepository.
func NewCatalogRepository(db *gorm.DB) repository.CatalogRepository {
	return &catalogRepository{db: db}
}

// UpsertShop finds a shop by name or creates it with the given owner.
func (repo *catalogRepository) UpsertShop(ctx context.Context, name string, ownerID uuid.UUID) (*entity.Shop, error) {
	var shopM model.ShopModel
	err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&shopM).Error

	if err == nil {
		return toShopDomain(&shopM), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to find shop by name")
	}

	shopM = model.ShopModel{Name: name, OwnerID: ownerID, State: true}
	if err := repo.db.WithContext(ctx).Create(&shopM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create shop")
	}

	return toShopDomain(&shopM), nil
}

// FindShopByName retrieves a single shop by its name.
func (repo *catalogRepository) FindShopByName(ctx context.Context, name string) (*entity.Shop, error) {
	var shopM model.ShopModel
	err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&shopM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrShopNotFound
		}

		return nil, errors.Wrap(err, "failed to find shop by name")
	}

	return toShopDomain(&shopM), nil
}

// UpsertCategory finds a category by (external id, name) or creates it,
// and idempotently links it to the given shop.
func (repo *catalogRepository) UpsertCategory(ctx context.Context, externalID int, name string, shopID uuid.UUID) (*entity.Category, error) {
	var categoryM model.CategoryModel
	err := repo.db.WithContext(ctx).
		Where("external_id = ? AND name = ?", externalID, name).
		First(&categoryM).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		categoryM = model.CategoryModel{ExternalID: externalID, Name: name}
		if err := repo.db.WithContext(ctx).Create(&categoryM).Error; err != nil {
			return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create category")
		}
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to find category")
	}

	if err := repo.linkShopCategory(ctx, shopID, categoryM.ID); err != nil {
		return nil, err
	}

	return toCategoryDomain(&categoryM), nil
}

// linkShopCategory adds the (shop, category) pair to the join table unless it is already present.
func (repo *catalogRepository) linkShopCategory(ctx context.Context, shopID, categoryID uuid.UUID) error {
	var count int64
	err := repo.db.WithContext(ctx).
		Table("shop_categories").
		Where("shop_model_id = ? AND category_model_id = ?", shopID, categoryID).
		Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "failed to check shop category link")
	}
	if count > 0 {
		return nil
	}

	if err := repo.db.WithContext(ctx).Exec(
		"INSERT INTO shop_categories (shop_model_id, category_model_id) VALUES (?, ?)",
		shopID, categoryID,
	).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to link shop and category")
	}

	return nil
}

// UpsertProduct finds a product by (name, category) or creates it.
func (repo *catalogRepository) UpsertProduct(ctx context.Context, name string, categoryID uuid.UUID) (*entity.Product, error) {
	var productM model.ProductModel
	err := repo.db.WithContext(ctx).
		Where("name = ? AND category_id = ?", name, categoryID).
		First(&productM).Error

	if err == nil {
		return toProductDomain(&productM), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to find product")
	}

	productM = model.ProductModel{Name: name, CategoryID: categoryID}
	if err := repo.db.WithContext(ctx).Create(&productM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create product")
	}

	return toProductDomain(&productM), nil
}

// CreateProductInfo appends a fresh listing row for one feed entry.
func (repo *catalogRepository) CreateProductInfo(ctx context.Context, info *entity.ProductInfo) error {
	infoM := fromProductInfoDomain(info)

	if err := repo.db.WithContext(ctx).Create(infoM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrMalformedFeed.WrapMessage("listing references unknown product or shop")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create product listing")
	}

	info.ID = infoM.ID
	info.CreatedAt = infoM.CreatedAt

	return nil
}

// UpsertParameter finds a parameter by name or creates it.
func (repo *catalogRepository) UpsertParameter(ctx context.Context, name string) (*entity.Parameter, error) {
	var paramM model.ParameterModel
	err := repo.db.WithContext(ctx).
		Where("name = ?", name).
		First(&paramM).Error

	if err == nil {
		return toParameterDomain(&paramM), nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "failed to find parameter")
	}

	paramM = model.ParameterModel{Name: name}
	if err := repo.db.WithContext(ctx).Create(&paramM).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create parameter")
	}

	return toParameterDomain(&paramM), nil
}

// CreateProductParameter appends one attribute value to a listing.
func (repo *catalogRepository) CreateProductParameter(ctx context.Context, param *entity.ProductParameter) error {
	paramM := &model.ProductParameterModel{
		ID:            param.ID,
		ProductInfoID: param.ProductInfoID,
		ParameterID:   param.ParameterID,
		Value:         param.Value,
	}

	if err := repo.db.WithContext(ctx).Create(paramM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create product parameter")
	}

	param.ID = paramM.ID

	return nil
}

// FindProductInfoByID retrieves a single listing by its unique ID.
func (repo *catalogRepository) FindProductInfoByID(ctx context.Context, id uuid.UUID) (*entity.ProductInfo, error) {
	var infoM model.ProductInfoModel
	err := repo.db.WithContext(ctx).
		Preload("Product").
		Preload("Shop").
		Where("id = ?", id).
		First(&infoM).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductInfoNotFound
		}

		return nil, errors.Wrap(err, "failed to find product listing")
	}

	return toProductInfoDomain(&infoM), nil
}

// ListShops retrieves all shops, active first, then by name.
func (repo *catalogRepository) ListShops(ctx context.Context) ([]*entity.Shop, error) {
	var shopMs []model.ShopModel
	err := repo.db.WithContext(ctx).
		Order("state DESC, name ASC").
		Find(&shopMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list shops")
	}

	shops := make([]*entity.Shop, 0, len(shopMs))
	for i := range shopMs {
		shops = append(shops, toShopDomain(&shopMs[i]))
	}

	return shops, nil
}

// ListCategories retrieves all categories with their associated shops.
func (repo *catalogRepository) ListCategories(ctx context.Context) ([]*entity.Category, error) {
	var categoryMs []model.CategoryModel
	err := repo.db.WithContext(ctx).
		Preload("Shops").
		Order("name ASC").
		Find(&categoryMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list categories")
	}

	categories := make([]*entity.Category, 0, len(categoryMs))
	for i := range categoryMs {
		categories = append(categories, toCategoryDomain(&categoryMs[i]))
	}

	return categories, nil
}

// ListProductInfos retrieves listings with product, shop and parameters preloaded,
// optionally filtered by shop and/or category.
func (repo *catalogRepository) ListProductInfos(ctx context.Context, filter repository.ProductInfoFilter) ([]*entity.ProductInfo, error) {
	query := repo.db.WithContext(ctx).
		Model(&model.ProductInfoModel{}).
		Preload("Product.Category").
		Preload("Shop").
		Preload("Parameters.Parameter")

	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN products ON products.id = product_infos.product_id").
			Where("products.category_id = ?", *filter.CategoryID)
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var infoMs []model.ProductInfoModel
	if err := query.Order("product_infos.created_at DESC").Find(&infoMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list product listings")
	}

	infos := make([]*entity.ProductInfo, 0, len(infoMs))
	for i := range infoMs {
		infos = append(infos, toProductInfoDomain(&infoMs[i]))
	}

	return infos, nil
}

// CountProductInfos returns the number of listings matching the filter.
func (repo *catalogRepository) CountProductInfos(ctx context.Context, filter repository.ProductInfoFilter) (int, error) {
	query := repo.db.WithContext(ctx).Model(&model.ProductInfoModel{})

	if filter.ShopID != nil {
		query = query.Where("shop_id = ?", *filter.ShopID)
	}
	if filter.CategoryID != nil {
		query = query.
			Joins("JOIN products ON products.id = product_infos.product_id").
			Where("products.category_id = ?", *filter.CategoryID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count product listings")
	}

	return int(count), nil
}

// --- Mapper Functions ---

// toShopDomain converts a GORM ShopModel to a domain Shop entity.
func toShopDomain(data *model.ShopModel) *entity.Shop {
	if data == nil {
		return nil
	}

	return &entity.Shop{
		ID:        data.ID,
		OwnerID:   data.OwnerID,
		Name:      data.Name,
		State:     data.State,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// toCategoryDomain converts a GORM CategoryModel to a domain Category entity.
func toCategoryDomain(data *model.CategoryModel) *entity.Category {
	if data == nil {
		return nil
	}

	shops := make([]*entity.Shop, 0, len(data.Shops))
	for _, shopM := range data.Shops {
		shops = append(shops, toShopDomain(shopM))
	}

	return &entity.Category{
		ID:         data.ID,
		ExternalID: data.ExternalID,
		Name:       data.Name,
		Shops:      shops,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// toProductDomain converts a GORM ProductModel to a domain Product entity.
func toProductDomain(data *model.ProductModel) *entity.Product {
	if data == nil {
		return nil
	}

	return &entity.Product{
		ID:         data.ID,
		CategoryID: data.CategoryID,
		Category:   toCategoryDomain(data.Category),
		Name:       data.Name,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// toParameterDomain converts a GORM ParameterModel to a domain Parameter entity.
func toParameterDomain(data *model.ParameterModel) *entity.Parameter {
	if data == nil {
		return nil
	}

	return &entity.Parameter{
		ID:        data.ID,
		Name:      data.Name,
		CreatedAt: data.CreatedAt,
	}
}

// toProductInfoDomain converts a GORM ProductInfoModel to a domain ProductInfo entity.
func toProductInfoDomain(data *model.ProductInfoModel) *entity.ProductInfo {
	if data == nil {
		return nil
	}

	params := make([]*entity.ProductParameter, 0, len(data.Parameters))
	for _, paramM := range data.Parameters {
		params = append(params, &entity.ProductParameter{
			ID:            paramM.ID,
			ProductInfoID: paramM.ProductInfoID,
			ParameterID:   paramM.ParameterID,
			Parameter:     toParameterDomain(paramM.Parameter),
			Value:         paramM.Value,
		})
	}

	return &entity.ProductInfo{
		ID:         data.ID,
		ProductID:  data.ProductID,
		Product:    toProductDomain(data.Product),
		ShopID:     data.ShopID,
		Shop:       toShopDomain(data.Shop),
		ExternalID: data.ExternalID,
		Model:      data.Model,
		Quantity:   data.Quantity,
		Price:      data.Price,
		PriceRRC:   data.PriceRRC,
		Parameters: params,
		CreatedAt:  data.CreatedAt,
	}
}

// fromProductInfoDomain converts a domain ProductInfo entity to a GORM ProductInfoModel.
func fromProductInfoDomain(data *entity.ProductInfo) *model.ProductInfoModel {
	if data == nil {
		return nil
	}

	return &model.ProductInfoModel{
		ID:         data.ID,
		ProductID:  data.ProductID,
		ShopID:     data.ShopID,
		ExternalID: data.ExternalID,
		Model:      data.Model,
		Quantity:   data.Quantity,
		Price:      data.Price,
		PriceRRC:   data.PriceRRC,
	}
}
