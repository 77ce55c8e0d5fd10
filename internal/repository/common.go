package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate 行锁；sqlite 驱动会忽略该子句
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// increment 原子增减计数列
func increment(column string, delta int64) clause.Expr {
	return gorm.Expr(column+" + ?", delta)
}
