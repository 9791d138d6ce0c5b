package models

import (
	"time"
)

// Quotation 报价单记录（只写一次）
type Quotation struct {
	ID              uint      `gorm:"primarykey" json:"id"`                                      // 主键
	QuotationNumber string    `gorm:"index;not null" json:"quotation_number"`                    // 报价单号（不保证唯一）
	UserID          uint      `gorm:"index;not null" json:"user_id"`                             // 用户ID
	Items           JSON      `gorm:"type:json;not null" json:"items"`                           // 明细快照
	TotalAmount     Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 合计
	CreatedAt       time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
}

// TableName 指定表名
func (Quotation) TableName() string {
	return "quotations"
}
