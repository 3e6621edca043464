package database

import (
	"gorm.io/gorm"

	"github.com/yukikurage/field-attendance-api/internal/utils"
)

// Paginate applies pagination to a GORM query
func Paginate(params utils.PaginationParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}

// ScheduleOrder sorts assignments by calendar date, then slot start
func ScheduleOrder(db *gorm.DB) *gorm.DB {
	return db.Order("assignments.date ASC").Order("assignments.slot_start ASC")
}

// NewestFirst sorts rows of table by creation time, latest first
func NewestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC")
	}
}
