package repository

import (
	"github.com/yukikurage/field-attendance-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProfileRepository is a GORM implementation of ProfileRepository
type GormProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &GormProfileRepository{db: db}
}

// FindAdmin finds an admin profile by ID
func (r *GormProfileRepository) FindAdmin(id uint64) (*models.AdminProfile, error) {
	var profile models.AdminProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindWorker finds a worker profile by ID
func (r *GormProfileRepository) FindWorker(id uint64) (*models.WorkerProfile, error) {
	var profile models.WorkerProfile
	if err := r.db.First(&profile, id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListWorkers lists all worker profiles ordered by name
func (r *GormProfileRepository) ListWorkers() ([]models.WorkerProfile, error) {
	var workers []models.WorkerProfile
	if err := r.db.Order("name ASC").Order("id ASC").Find(&workers).Error; err != nil {
		return nil, err
	}
	return workers, nil
}

// LockWorker locks the worker profile row with SELECT ... FOR UPDATE.
// SQLite has no row locks and ignores the clause; its writers are serialized anyway.
func (r *GormProfileRepository) LockWorker(id uint64) error {
	var profile models.WorkerProfile
	return r.db.
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		First(&profile, id).Error
}
