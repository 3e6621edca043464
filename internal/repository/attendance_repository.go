package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"gorm.io/gorm"
)

// ErrAttendanceNotActive is returned when completing an attendance that is no longer in progress.
var ErrAttendanceNotActive = errors.New("attendance repository: attendance is not in progress")

// GormAttendanceRepository is a GORM implementation of AttendanceRepository
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository creates a new AttendanceRepository
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// Create creates a new attendance record
func (r *GormAttendanceRepository) Create(attendance *models.Attendance) error {
	return r.db.Omit("Assignment").Create(attendance).Error
}

// FindActive finds the in-progress attendance for a worker and assignment
func (r *GormAttendanceRepository) FindActive(workerID uint64, assignmentID uuid.UUID) (*models.Attendance, error) {
	var attendance models.Attendance
	if err := r.db.
		Where("worker_id = ? AND assignment_id = ? AND status = ?", workerID, assignmentID, models.AttendanceStatusInProgress).
		Order("start_time DESC").
		First(&attendance).Error; err != nil {
		return nil, err
	}
	return &attendance, nil
}

// CountCompleted counts completed attendance records for a worker and assignment
func (r *GormAttendanceRepository) CountCompleted(workerID uint64, assignmentID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Attendance{}).
		Where("worker_id = ? AND assignment_id = ? AND status = ?", workerID, assignmentID, models.AttendanceStatusCompleted).
		Count(&count).Error
	return count, err
}

// Complete closes an in-progress attendance with a conditional update
func (r *GormAttendanceRepository) Complete(attendance *models.Attendance) error {
	result := r.db.Model(&models.Attendance{}).
		Where("id = ? AND status = ?", attendance.ID, models.AttendanceStatusInProgress).
		Updates(map[string]interface{}{
			"end_time":      attendance.EndTime,
			"end_latitude":  attendance.EndLatitude,
			"end_longitude": attendance.EndLongitude,
			"status":        models.AttendanceStatusCompleted,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAttendanceNotActive
	}
	attendance.Status = models.AttendanceStatusCompleted
	return nil
}

// List retrieves attendance records newest first
func (r *GormAttendanceRepository) List(filter AttendanceFilter) ([]models.Attendance, error) {
	var records []models.Attendance

	query := r.db.Model(&models.Attendance{})
	if filter.WorkerID != nil {
		query = query.Where("worker_id = ?", *filter.WorkerID)
	}
	if filter.AssignmentID != nil {
		query = query.Where("assignment_id = ?", *filter.AssignmentID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Order("start_time DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
