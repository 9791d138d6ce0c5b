//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/cart"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.CartItem{},
		&models.OrderItem{},
		&models.Order{},
		&models.Quotation{},
		&models.Product{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresOrderNumberUniqueViolation(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)
	owner := &models.User{Email: "owner@example.com", PasswordHash: "x", Role: constants.RoleUser}
	if err := db.Create(owner).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	first := &models.Order{OrderNumber: "PO-PG-1", UserID: owner.ID}
	if err := repo.Create(first, nil); err != nil {
		t.Fatalf("create first order failed: %v", err)
	}
	second := &models.Order{OrderNumber: "PO-PG-1", UserID: owner.ID}
	err := repo.Create(second, nil)
	if !IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestPostgresCartMutateLocksOwner(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	user := &models.User{Email: "pg@example.com", PasswordHash: "x", Role: constants.RoleUser}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	repo := NewCartRepository(db)
	store, err := repo.Mutate(context.Background(), user.ID, func(store *cart.Store) error {
		store.AddItem(cart.Line{
			ProductID:    1,
			Name:         "Widget",
			Price:        models.NewMoneyFromDecimal(decimal.NewFromInt(5)),
			Quantity:     2,
			ColorVariant: constants.CartDefaultColorVariant,
		})
		return nil
	})
	if err != nil {
		t.Fatalf("mutate cart failed: %v", err)
	}
	if store.ItemCount() != 2 {
		t.Fatalf("unexpected item count: %d", store.ItemCount())
	}
}
