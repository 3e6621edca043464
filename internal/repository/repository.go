package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithProfile creates the role profile and the user pointing at it within a single transaction.
	// Exactly one of admin and worker must be non-nil and must match user.Role.
	CreateWithProfile(user *models.User, admin *models.AdminProfile, worker *models.WorkerProfile) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)
}

// ProfileRepository defines the interface for admin and worker profile access
type ProfileRepository interface {
	// FindAdmin finds an admin profile by ID
	FindAdmin(id uint64) (*models.AdminProfile, error)

	// FindWorker finds a worker profile by ID
	FindWorker(id uint64) (*models.WorkerProfile, error)

	// ListWorkers lists all worker profiles ordered by name
	ListWorkers() ([]models.WorkerProfile, error)

	// LockWorker takes a row lock on the worker profile for the rest of the transaction.
	// Returns gorm.ErrRecordNotFound if the worker does not exist.
	LockWorker(id uint64) error
}

// AssignmentRepository defines the interface for assignment data access
type AssignmentRepository interface {
	// Create creates a new assignment
	Create(assignment *models.Assignment) error

	// FindByID finds an assignment by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Assignment, error)

	// FindByIDUnscoped finds an assignment by ID including soft deleted ones
	FindByIDUnscoped(id uuid.UUID) (*models.Assignment, error)

	// FindOverlapping returns the first assignment that overlaps the query, or nil
	FindOverlapping(query OverlapQuery) (*models.Assignment, error)

	// List retrieves assignments with filtering and pagination
	List(filter AssignmentFilter) ([]models.Assignment, int64, error)

	// Update updates an assignment
	Update(assignment *models.Assignment) error

	// Delete soft deletes an assignment
	Delete(id uuid.UUID) error
}

// OverlapQuery selects assignments of one worker on one date whose slot intersects [Start, End)
type OverlapQuery struct {
	WorkerID  uint64
	Date      string
	Start     string
	End       string
	ExcludeID *uuid.UUID
}

// AssignmentFilter holds filtering options for listing assignments
type AssignmentFilter struct {
	WorkerID     *uint64
	AssignedByID *uint64
	Date         *string
	DateFrom     *string
	// SortBySchedule orders by date then slot start ascending; otherwise newest first
	SortBySchedule bool
	Pagination     *utils.PaginationParams
	Limit          int
}

// AttendanceRepository defines the interface for attendance data access
type AttendanceRepository interface {
	// Create creates a new attendance record
	Create(attendance *models.Attendance) error

	// FindActive finds the in-progress attendance for a worker and assignment
	FindActive(workerID uint64, assignmentID uuid.UUID) (*models.Attendance, error)

	// CountCompleted counts completed attendance records for a worker and assignment
	CountCompleted(workerID uint64, assignmentID uuid.UUID) (int64, error)

	// Complete closes an in-progress attendance. Returns ErrAttendanceNotActive if it was already closed.
	Complete(attendance *models.Attendance) error

	// List retrieves attendance records newest first
	List(filter AttendanceFilter) ([]models.Attendance, error)
}

// AttendanceFilter holds filtering options for listing attendance records
type AttendanceFilter struct {
	WorkerID     *uint64
	AssignmentID *uuid.UUID
	Status       *models.AttendanceStatus
	Limit        int
}

// Repositories bundles the repositories bound to one database handle
type Repositories struct {
	Users       UserRepository
	Profiles    ProfileRepository
	Assignments AssignmentRepository
	Attendances AttendanceRepository
}

// Store gives access to repositories and runs work inside a transaction
type Store interface {
	// Repositories returns repositories bound to the base connection
	Repositories() Repositories

	// WithinTransaction runs fn with repositories bound to a single transaction.
	// The transaction commits if fn returns nil and rolls back otherwise.
	WithinTransaction(fn func(tx Repositories) error) error
}
