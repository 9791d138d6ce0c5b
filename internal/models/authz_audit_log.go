package models

import "time"

// AuthzAuditLog 权限变更审计日志
// 说明：记录角色策略授予/撤销、角色删除与账号改角色等运维操作。
type AuthzAuditLog struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Operator    string    `gorm:"type:varchar(100);index;not null;default:''" json:"operator"`
	TargetEmail string    `gorm:"type:varchar(255);index;not null;default:''" json:"target_email"`
	Action      string    `gorm:"type:varchar(50);index;not null" json:"action"`
	Role        string    `gorm:"type:varchar(120);index;not null;default:''" json:"role"`
	Object      string    `gorm:"type:varchar(255);not null;default:''" json:"object"`
	Method      string    `gorm:"type:varchar(20);not null;default:''" json:"method"`
	DetailJSON  JSON      `gorm:"type:json" json:"detail"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName 指定表名
func (AuthzAuditLog) TableName() string {
	return "authz_audit_logs"
}
