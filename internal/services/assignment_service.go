package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/constants"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/locks"
	"github.com/yukikurage/field-attendance-api/internal/metrics"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/repository"
	"github.com/yukikurage/field-attendance-api/internal/timewindow"
	"github.com/yukikurage/field-attendance-api/internal/utils"
	"gorm.io/gorm"
)

// AssignmentService schedules assignments and keeps each worker's day free of overlapping slots.
type AssignmentService struct {
	store         repository.Store
	workerLocks   *locks.WorkerLocks
	clock         *timewindow.Validator
	metrics       *metrics.Metrics
	upcomingLimit int
}

// NewAssignmentService creates a new AssignmentService.
// upcomingLimit caps fromDate listings and is clamped to [1, constants.MaxUpcomingLimit].
func NewAssignmentService(store repository.Store, workerLocks *locks.WorkerLocks, clock *timewindow.Validator, m *metrics.Metrics, upcomingLimit int) *AssignmentService {
	if upcomingLimit <= 0 {
		upcomingLimit = constants.DefaultUpcomingLimit
	}
	if upcomingLimit > constants.MaxUpcomingLimit {
		upcomingLimit = constants.MaxUpcomingLimit
	}
	return &AssignmentService{
		store:         store,
		workerLocks:   workerLocks,
		clock:         clock,
		metrics:       m,
		upcomingLimit: upcomingLimit,
	}
}

// CreateAssignmentInput represents input for creating an assignment
type CreateAssignmentInput struct {
	WorkerID                uint64
	AssignedByID            uint64
	Date                    string
	Location                *geo.Point
	TimeSlot                models.TimeSlot
	RequiredDurationMinutes int
	Description             string
}

// UpdateAssignmentInput represents a partial update. Nil fields are left unchanged.
type UpdateAssignmentInput struct {
	Date                    *string
	Location                *geo.Point
	StartTime               *string
	EndTime                 *string
	RequiredDurationMinutes *int
	Description             *string
}

// WorkerFilterKind selects which of a worker's assignments to list.
type WorkerFilterKind string

const (
	WorkerFilterAll      WorkerFilterKind = "all"
	WorkerFilterOnDate   WorkerFilterKind = "on_date"
	WorkerFilterFromDate WorkerFilterKind = "from_date"
)

// WorkerFilter narrows ListForWorker. Date is required for OnDate and FromDate.
type WorkerFilter struct {
	Kind  WorkerFilterKind
	Date  string
	Limit int
}

// WorkerFilterFor maps the worker-facing filter names all, today and upcoming onto a WorkerFilter.
func (s *AssignmentService) WorkerFilterFor(name string, now time.Time) (WorkerFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "all":
		return WorkerFilter{Kind: WorkerFilterAll}, nil
	case "today":
		return WorkerFilter{Kind: WorkerFilterOnDate, Date: s.clock.Today(now)}, nil
	case "upcoming":
		return WorkerFilter{Kind: WorkerFilterFromDate, Date: s.clock.Today(now)}, nil
	default:
		return WorkerFilter{}, validationError("filter", "must be one of all, today, upcoming")
	}
}

func validateAssignmentFields(date string, location *geo.Point, slot models.TimeSlot, requiredMinutes int) error {
	if strings.TrimSpace(date) == "" {
		return validationError("date", "is required")
	}
	if _, err := timewindow.ParseDate(date); err != nil {
		return validationError("date", "%v", err)
	}
	if slot.Start == "" || slot.End == "" {
		return validationError("time_slot", "start and end are required")
	}
	if err := timewindow.ValidateSlot(slot.Start, slot.End); err != nil {
		return validationError("time_slot", "%v", err)
	}
	if location == nil {
		return validationError("location", "is required")
	}
	if err := location.Validate(); err != nil {
		return validationError("location", "%v", err)
	}
	if requiredMinutes < 0 {
		return validationError("required_duration_minutes", "must not be negative")
	}
	return nil
}

func overlapConflict(existing *models.Assignment) *ConflictError {
	return &ConflictError{
		Message: fmt.Sprintf("worker already has an assignment on %s from %s to %s",
			existing.Date, existing.TimeSlot.Start, existing.TimeSlot.End),
		Assignment: existing,
	}
}

// Create schedules a new assignment after checking the worker's day for overlaps.
func (s *AssignmentService) Create(input CreateAssignmentInput) (*models.Assignment, error) {
	if input.WorkerID == 0 {
		return nil, validationError("worker_id", "is required")
	}
	if input.AssignedByID == 0 {
		return nil, validationError("assigned_by_id", "is required")
	}
	if err := validateAssignmentFields(input.Date, input.Location, input.TimeSlot, input.RequiredDurationMinutes); err != nil {
		return nil, err
	}

	assignment := &models.Assignment{
		WorkerID:                input.WorkerID,
		AssignedByID:            input.AssignedByID,
		Date:                    input.Date,
		Location:                *input.Location,
		TimeSlot:                input.TimeSlot,
		RequiredDurationMinutes: input.RequiredDurationMinutes,
		Description:             strings.TrimSpace(input.Description),
	}

	unlock := s.workerLocks.Lock(input.WorkerID)
	defer unlock()

	err := s.store.WithinTransaction(func(tx repository.Repositories) error {
		if _, err := tx.Profiles.FindAdmin(input.AssignedByID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAdminNotFound
			}
			return fmt.Errorf("failed to find admin: %w", err)
		}

		if err := tx.Profiles.LockWorker(input.WorkerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkerNotFound
			}
			return fmt.Errorf("failed to lock worker: %w", err)
		}

		existing, err := tx.Assignments.FindOverlapping(repository.OverlapQuery{
			WorkerID: input.WorkerID,
			Date:     input.Date,
			Start:    input.TimeSlot.Start,
			End:      input.TimeSlot.End,
		})
		if err != nil {
			return fmt.Errorf("failed to check overlapping assignments: %w", err)
		}
		if existing != nil {
			return overlapConflict(existing)
		}

		if err := tx.Assignments.Create(assignment); err != nil {
			return fmt.Errorf("failed to create assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.metrics.AssignmentConflict()
		}
		return nil, err
	}
	s.metrics.AssignmentCreated()

	return s.reload(assignment.ID)
}

// Update applies a partial update. Only the admin who created the assignment may update it.
func (s *AssignmentService) Update(id uuid.UUID, callerAdminID uint64, input UpdateAssignmentInput) (*models.Assignment, error) {
	current, err := s.getOwned(id, callerAdminID)
	if err != nil {
		return nil, err
	}

	// the worker never changes on update, so the lock taken here covers the re-read below
	unlock := s.workerLocks.Lock(current.WorkerID)
	defer unlock()

	err = s.store.WithinTransaction(func(tx repository.Repositories) error {
		assignment, err := tx.Assignments.FindByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to find assignment: %w", err)
		}
		if assignment.AssignedByID != callerAdminID {
			return ErrNotAssignmentOwner
		}

		scheduleChanged := false
		if input.Date != nil && *input.Date != assignment.Date {
			assignment.Date = *input.Date
			scheduleChanged = true
		}
		if input.StartTime != nil && *input.StartTime != assignment.TimeSlot.Start {
			assignment.TimeSlot.Start = *input.StartTime
			scheduleChanged = true
		}
		if input.EndTime != nil && *input.EndTime != assignment.TimeSlot.End {
			assignment.TimeSlot.End = *input.EndTime
			scheduleChanged = true
		}
		if input.Location != nil {
			assignment.Location = *input.Location
		}
		if input.RequiredDurationMinutes != nil {
			assignment.RequiredDurationMinutes = *input.RequiredDurationMinutes
		}
		if input.Description != nil {
			assignment.Description = strings.TrimSpace(*input.Description)
		}

		if err := validateAssignmentFields(assignment.Date, &assignment.Location, assignment.TimeSlot, assignment.RequiredDurationMinutes); err != nil {
			return err
		}

		if scheduleChanged {
			if err := tx.Profiles.LockWorker(assignment.WorkerID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrWorkerNotFound
				}
				return fmt.Errorf("failed to lock worker: %w", err)
			}

			existing, err := tx.Assignments.FindOverlapping(repository.OverlapQuery{
				WorkerID:  assignment.WorkerID,
				Date:      assignment.Date,
				Start:     assignment.TimeSlot.Start,
				End:       assignment.TimeSlot.End,
				ExcludeID: &assignment.ID,
			})
			if err != nil {
				return fmt.Errorf("failed to check overlapping assignments: %w", err)
			}
			if existing != nil {
				return overlapConflict(existing)
			}
		}

		if err := tx.Assignments.Update(assignment); err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			s.metrics.AssignmentConflict()
		}
		return nil, err
	}

	return s.reload(id)
}

// Delete soft deletes an assignment. Only the admin who created it may delete it.
// Attendance recorded against it is kept.
func (s *AssignmentService) Delete(id uuid.UUID, callerAdminID uint64) error {
	current, err := s.getOwned(id, callerAdminID)
	if err != nil {
		return err
	}

	unlock := s.workerLocks.Lock(current.WorkerID)
	defer unlock()

	return s.store.WithinTransaction(func(tx repository.Repositories) error {
		if _, err := tx.Assignments.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to find assignment: %w", err)
		}
		if err := tx.Assignments.Delete(id); err != nil {
			return fmt.Errorf("failed to delete assignment: %w", err)
		}
		return nil
	})
}

// ListForWorker lists a worker's assignments ordered by date then slot start.
// FromDate listings are capped at the configured upcoming limit.
func (s *AssignmentService) ListForWorker(workerID uint64, filter WorkerFilter) ([]models.Assignment, error) {
	query := repository.AssignmentFilter{
		WorkerID:       &workerID,
		SortBySchedule: true,
	}

	switch filter.Kind {
	case WorkerFilterAll, "":
	case WorkerFilterOnDate, WorkerFilterFromDate:
		if _, err := timewindow.ParseDate(filter.Date); err != nil {
			return nil, validationError("date", "%v", err)
		}
		date := filter.Date
		if filter.Kind == WorkerFilterOnDate {
			query.Date = &date
		} else {
			query.DateFrom = &date
			query.Limit = s.upcomingLimit
		}
	default:
		return nil, validationError("filter", "unknown filter %q", filter.Kind)
	}

	if filter.Limit > 0 && (query.Limit == 0 || filter.Limit < query.Limit) {
		query.Limit = filter.Limit
	}

	assignments, _, err := s.store.Repositories().Assignments.List(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, nil
}

// ListForAdmin lists the assignments an admin created, newest first.
func (s *AssignmentService) ListForAdmin(adminID uint64, pagination utils.PaginationParams) ([]models.Assignment, int64, error) {
	assignments, total, err := s.store.Repositories().Assignments.List(repository.AssignmentFilter{
		AssignedByID: &adminID,
		Pagination:   &pagination,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assignments: %w", err)
	}
	return assignments, total, nil
}

// GetForAdmin returns an assignment the admin created.
func (s *AssignmentService) GetForAdmin(id uuid.UUID, adminID uint64) (*models.Assignment, error) {
	if _, err := s.getOwned(id, adminID); err != nil {
		return nil, err
	}
	return s.reload(id)
}

// GetForWorker returns an assignment scheduled for the worker.
func (s *AssignmentService) GetForWorker(id uuid.UUID, workerID uint64) (*models.Assignment, error) {
	assignment, err := s.reload(id)
	if err != nil {
		return nil, err
	}
	if assignment.WorkerID != workerID {
		return nil, ErrNotAssignee
	}
	return assignment, nil
}

func (s *AssignmentService) getOwned(id uuid.UUID, adminID uint64) (*models.Assignment, error) {
	assignment, err := s.store.Repositories().Assignments.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	if assignment.AssignedByID != adminID {
		return nil, ErrNotAssignmentOwner
	}
	return assignment, nil
}

func (s *AssignmentService) reload(id uuid.UUID) (*models.Assignment, error) {
	assignment, err := s.store.Repositories().Assignments.FindByID(id, "Worker", "AssignedBy")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	return assignment, nil
}
