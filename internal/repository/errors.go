package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// IsUniqueViolation 判断是否为唯一约束冲突（兼容 TranslateError 与驱动原始错误）
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"): // sqlite
		return true
	case strings.Contains(msg, "duplicate key"), strings.Contains(msg, "sqlstate 23505"): // postgres
		return true
	}
	return false
}
