package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID           uint           `gorm:"primarykey" json:"id"`                        // 主键
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`           // 邮箱
	Name         string         `gorm:"default:''" json:"name"`                      // 姓名
	PasswordHash string         `gorm:"not null" json:"-"`                           // 密码哈希（不返回给前端）
	Role         string         `gorm:"type:varchar(20);not null;index" json:"role"` // 角色（ADMIN/DELIVERY/USER）
	LastLoginAt  *time.Time     `json:"last_login_at,omitempty"`                     // 最后登录时间
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                     // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                  // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
