package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                               // 主键
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`             // 名称
	Description   string         `gorm:"type:text" json:"description"`                       // 描述
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 单价
	Stock         int            `gorm:"not null;default:0" json:"stock"`                    // 库存（仅展示与加购上限，不扣减）
	Category      string         `gorm:"type:varchar(100);index" json:"category"`            // 分类
	Images        StringArray    `gorm:"type:json" json:"images"`                            // 图片集合
	ColorVariants StringArray    `gorm:"type:json" json:"color_variants"`                    // 颜色集合
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                         // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// PrimaryImage 返回首图
func (p Product) PrimaryImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
