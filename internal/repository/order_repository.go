package repository

import (
	"errors"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	ExistsByOrderNumber(orderNumber string) (bool, error)
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	GetItemByID(id uint) (*models.OrderItem, error)
	UpdateItemDelivery(id uint, status string, comments *string) error
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

func (r *GormOrderRepository) withItems(query *gorm.DB) *gorm.DB {
	return query.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Preload("Items.Product", func(db *gorm.DB) *gorm.DB {
		return db.Unscoped()
	})
}

// ExistsByOrderNumber 采购单号是否已存在（含软删除记录，与唯一索引保持一致）
func (r *GormOrderRepository) ExistsByOrderNumber(orderNumber string) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Order{}).
		Where("order_number = ?", strings.TrimSpace(orderNumber)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items", "User").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Omit("Product").Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单（含明细、商品与下单用户）
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	query := r.withItems(r.db.Preload("User"))
	if err := query.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 订单列表，按创建时间倒序；UserID 为 0 时返回全部订单
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if number := strings.TrimSpace(filter.OrderNumber); number != "" {
		query = query.Where("order_number = ?", number)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)
	query = r.withItems(query)
	if filter.WithUser {
		query = query.Preload("User")
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// GetItemByID 获取订单项
func (r *GormOrderRepository) GetItemByID(id uint) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItemDelivery 覆盖写入交付状态与备注（comments 为 nil 时置空）
func (r *GormOrderRepository) UpdateItemDelivery(id uint, status string, comments *string) error {
	result := r.db.Model(&models.OrderItem{}).Where("id = ?", id).Updates(map[string]interface{}{
		"delivery_status":   status,
		"delivery_comments": comments,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
