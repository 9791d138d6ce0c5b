package repository

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// supportsRowLocking sqlite 以库级写锁串行化事务，不支持 FOR UPDATE。
func supportsRowLocking(dialect string) bool {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return true
	default:
		return false
	}
}

// lockForUpdate 在支持的方言上追加行锁
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if !supportsRowLocking(dbDialectName(db)) {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// likeOperator postgres 使用 ILIKE 保持大小写不敏感
func likeOperator(db *gorm.DB) string {
	if supportsRowLocking(dbDialectName(db)) {
		return "ILIKE"
	}
	return "LIKE"
}
