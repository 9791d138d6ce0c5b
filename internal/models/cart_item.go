package models

import (
	"time"
)

// CartItem 购物车行（按用户整体快照保存）
type CartItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`                                                           // 主键
	UserID       uint      `gorm:"not null;uniqueIndex:idx_cart_user_line" json:"user_id"`                         // 用户ID
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_line" json:"product_id"`                      // 商品ID
	ColorVariant string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_cart_user_line" json:"color_variant"` // 颜色
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`                                         // 商品名称快照
	Price        Money     `gorm:"type:decimal(20,2);not null;default:0" json:"price"`                             // 单价快照
	Quantity     int       `gorm:"not null" json:"quantity"`                                                       // 数量
	Image        string    `gorm:"type:varchar(500)" json:"image"`                                                 // 首图快照
	Position     int       `gorm:"not null;default:0" json:"-"`                                                    // 行顺序
	CreatedAt    time.Time `gorm:"index" json:"created_at"`                                                        // 创建时间
	UpdatedAt    time.Time `json:"updated_at"`                                                                     // 更新时间
}

// TableName 指定表名
func (CartItem) TableName() string {
	return "cart_items"
}
