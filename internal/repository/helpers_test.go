package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "Tester", PasswordHash: "hash", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createTestProduct(t *testing.T, db *gorm.DB, name, category string, price int64) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Description:   name + " description",
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:         10,
		Category:      category,
		Images:        models.StringArray{"/uploads/product/" + strings.ToLower(name) + ".png"},
		ColorVariants: models.StringArray{"Red", "Blue"},
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func createTestOrder(t *testing.T, db *gorm.DB, number string, userID uint, productID uint) *models.Order {
	t.Helper()
	color := "Red"
	order := &models.Order{OrderNumber: number, UserID: userID}
	items := []models.OrderItem{{
		ProductID:      productID,
		Quantity:       2,
		Price:          models.NewMoneyFromDecimal(decimal.NewFromInt(10)),
		ColorVariant:   &color,
		DeliveryStatus: constants.DeliveryStatusNotStarted,
	}}
	if err := NewOrderRepository(db).Create(order, items); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}
