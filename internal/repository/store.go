package repository

import "gorm.io/gorm"

// GormStore is a GORM implementation of Store
type GormStore struct {
	db *gorm.DB
}

// NewStore creates a new Store
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Repositories returns repositories bound to the base connection
func (s *GormStore) Repositories() Repositories {
	return newRepositories(s.db)
}

// WithinTransaction runs fn inside a database transaction
func (s *GormStore) WithinTransaction(fn func(tx Repositories) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}

func newRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:       NewUserRepository(db),
		Profiles:    NewProfileRepository(db),
		Assignments: NewAssignmentRepository(db),
		Attendances: NewAttendanceRepository(db),
	}
}
