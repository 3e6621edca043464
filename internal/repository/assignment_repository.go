package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/database"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"gorm.io/gorm"
)

// GormAssignmentRepository is a GORM implementation of AssignmentRepository
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository creates a new AssignmentRepository
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Create creates a new assignment
func (r *GormAssignmentRepository) Create(assignment *models.Assignment) error {
	return r.db.Create(assignment).Error
}

// FindByID finds an assignment by ID with optional preloading
func (r *GormAssignmentRepository) FindByID(id uuid.UUID, preload ...string) (*models.Assignment, error) {
	var assignment models.Assignment
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.Where("assignments.id = ?", id).First(&assignment).Error; err != nil {
		return nil, err
	}

	return &assignment, nil
}

// FindByIDUnscoped finds an assignment by ID including soft deleted ones.
// Open attendance sessions still need their assignment after it is deleted.
func (r *GormAssignmentRepository) FindByIDUnscoped(id uuid.UUID) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.Unscoped().Where("id = ?", id).First(&assignment).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindOverlapping returns the earliest assignment of the worker on the date whose slot
// intersects [query.Start, query.End). Slots are zero-padded HH:MM so string order is time order.
func (r *GormAssignmentRepository) FindOverlapping(query OverlapQuery) (*models.Assignment, error) {
	q := r.db.Model(&models.Assignment{}).
		Where("worker_id = ? AND date = ?", query.WorkerID, query.Date).
		Where("slot_start < ? AND slot_end > ?", query.End, query.Start)

	if query.ExcludeID != nil {
		q = q.Where("id <> ?", *query.ExcludeID)
	}

	var found []models.Assignment
	if err := q.Order("slot_start ASC").Limit(1).Find(&found).Error; err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// List retrieves assignments with filtering and pagination
func (r *GormAssignmentRepository) List(filter AssignmentFilter) ([]models.Assignment, int64, error) {
	var assignments []models.Assignment

	query := r.db.Model(&models.Assignment{})

	if filter.WorkerID != nil {
		query = query.Where("assignments.worker_id = ?", *filter.WorkerID)
	}
	if filter.AssignedByID != nil {
		query = query.Where("assignments.assigned_by_id = ?", *filter.AssignedByID)
	}
	if filter.Date != nil {
		query = query.Where("assignments.date = ?", *filter.Date)
	}
	if filter.DateFrom != nil {
		query = query.Where("assignments.date >= ?", *filter.DateFrom)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.SortBySchedule {
		listQuery = listQuery.Scopes(database.ScheduleOrder)
	} else {
		listQuery = listQuery.Scopes(database.NewestFirst("assignments"))
	}

	if filter.Pagination != nil {
		listQuery = listQuery.Scopes(database.Paginate(*filter.Pagination))
	} else if filter.Limit > 0 {
		listQuery = listQuery.Limit(filter.Limit)
	}

	if err := listQuery.Preload("Worker").Preload("AssignedBy").Find(&assignments).Error; err != nil {
		return nil, 0, err
	}

	return assignments, total, nil
}

// Update updates an assignment
func (r *GormAssignmentRepository) Update(assignment *models.Assignment) error {
	return r.db.Omit("Worker", "AssignedBy").Save(assignment).Error
}

// Delete soft deletes an assignment. Attendance records are kept for audit.
func (r *GormAssignmentRepository) Delete(id uuid.UUID) error {
	return r.db.Where("id = ?", id).Delete(&models.Assignment{}).Error
}
