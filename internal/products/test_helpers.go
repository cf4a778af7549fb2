package product

import (
	"fmt"
	"testing"

	"github.com/carlosmendieta/modique-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB opens an isolated in-memory database with the full schema
// migrated. The pool is pinned to a single connection so every query in a
// test sees the same in-memory instance.
func OpenTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:mdq_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductSize{},
		&models.Cart{},
		&models.CartItem{},
		&models.CartVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.Counter{},
		&models.WishlistItem{},
		&models.OutboxEvent{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// MustCreateTestUser inserts a customer row for repository tests.
func MustCreateTestUser(t *testing.T, tx *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("mdq_test_%s@example.com", uuid.NewString()),
		PasswordHash: "hash",
		FirstName:    "Repo",
		LastName:     "Tester",
		IsActive:     true,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

// MustCreateTestProduct inserts a product with per-size stock rows.
func MustCreateTestProduct(t *testing.T, tx *gorm.DB, priceCents int64, stockBySize map[string]int) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		SKU:        fmt.Sprintf("SKU-%s", uuid.NewString()),
		Title:      "Test Product",
		PriceCents: priceCents,
		IsActive:   true,
	}
	for size, stock := range stockBySize {
		product.Sizes = append(product.Sizes, models.ProductSize{
			ID:    uuid.New(),
			Size:  size,
			Stock: stock,
		})
	}
	if err := tx.Create(product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}
