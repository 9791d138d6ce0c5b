package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNumber string         `gorm:"uniqueIndex;not null" json:"order_number"`                  // 采购单号（客户填写）
	UserID      uint           `gorm:"index;not null" json:"user_id"`                             // 下单用户ID
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单金额（按明细快照汇总）
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
	User  *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`   // 下单用户（交付视图）
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
