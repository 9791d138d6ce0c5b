package repository

import (
	"context"
	"errors"

	"github.com/Umair-Web/BTOBPortal/internal/cart"
	"github.com/Umair-Web/BTOBPortal/internal/models"

	"gorm.io/gorm"
)

// ErrCartBusy 购物车并发修改重试耗尽
var ErrCartBusy = errors.New("cart is being modified concurrently")

// CartMutation 在临界区内对购物车执行的修改；返回错误时放弃写回
type CartMutation func(store *cart.Store) error

// CartRepository 购物车持久化接口：读取-修改-写回在同一临界区内完成
type CartRepository interface {
	Load(ctx context.Context, userID uint) (*cart.Store, error)
	Mutate(ctx context.Context, userID uint, fn CartMutation) (*cart.Store, error)
}

// GormCartRepository 关系库实现，整车快照存于 cart_items
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// Load 读取购物车
func (r *GormCartRepository) Load(ctx context.Context, userID uint) (*cart.Store, error) {
	return loadCartRows(r.db.WithContext(ctx), userID)
}

// Mutate 在单个事务内读取、修改并整体写回购物车
func (r *GormCartRepository) Mutate(ctx context.Context, userID uint, fn CartMutation) (*cart.Store, error) {
	var result *cart.Store
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// postgres 下锁住用户行，串行化同一用户的并发修改
		if supportsRowLocking(dbDialectName(tx)) {
			var owner models.User
			if err := lockForUpdate(tx).Select("id").First(&owner, userID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}
		store, err := loadCartRows(tx, userID)
		if err != nil {
			return err
		}
		if err := fn(store); err != nil {
			return err
		}
		if err := saveCartRows(tx, userID, store); err != nil {
			return err
		}
		result = store
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func loadCartRows(db *gorm.DB, userID uint) (*cart.Store, error) {
	var rows []models.CartItem
	if err := db.Where("user_id = ?", userID).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	lines := make([]cart.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, cart.Line{
			ProductID:    row.ProductID,
			Name:         row.Name,
			Price:        row.Price,
			Quantity:     row.Quantity,
			ColorVariant: row.ColorVariant,
			Image:        row.Image,
		})
	}
	return cart.NewStore(lines...), nil
}

func saveCartRows(tx *gorm.DB, userID uint, store *cart.Store) error {
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	lines := store.Lines()
	if len(lines) == 0 {
		return nil
	}
	rows := make([]models.CartItem, 0, len(lines))
	for i, line := range lines {
		rows = append(rows, models.CartItem{
			UserID:       userID,
			ProductID:    line.ProductID,
			ColorVariant: line.ColorVariant,
			Name:         line.Name,
			Price:        line.Price,
			Quantity:     line.Quantity,
			Image:        line.Image,
			Position:     i,
		})
	}
	return tx.Create(&rows).Error
}
