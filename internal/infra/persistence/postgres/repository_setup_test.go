package postgres

import (
	"testing"

	"bazaar/internal/infra/persistence/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens an in-memory SQLite database and migrates the full schema.
// The repositories only issue portable SQL, so they run unchanged against it.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.UserModel{},
		&model.AuthenticationModel{},
		&model.RefreshTokenModel{},
		&model.ContactModel{},
		&model.ShopModel{},
		&model.CategoryModel{},
		&model.ProductModel{},
		&model.ProductInfoModel{},
		&model.ParameterModel{},
		&model.ProductParameterModel{},
		&model.OrderModel{},
		&model.OrderItemModel{},
	)
	require.NoError(t, err)

	return db
}
