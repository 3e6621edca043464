package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/locks"
	"github.com/yukikurage/field-attendance-api/internal/metrics"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/repository"
	"github.com/yukikurage/field-attendance-api/internal/timewindow"
	"gorm.io/gorm"
)

// AttendanceService tracks check-in and check-out against assignments.
// Each (worker, assignment) pair moves NotStarted -> InProgress -> Completed, and Completed is final.
type AttendanceService struct {
	store        repository.Store
	workerLocks  *locks.WorkerLocks
	clock        *timewindow.Validator
	metrics      *metrics.Metrics
	radiusMeters float64
}

// NewAttendanceService creates a new AttendanceService.
func NewAttendanceService(store repository.Store, workerLocks *locks.WorkerLocks, clock *timewindow.Validator, m *metrics.Metrics, radiusMeters float64) *AttendanceService {
	return &AttendanceService{
		store:        store,
		workerLocks:  workerLocks,
		clock:        clock,
		metrics:      m,
		radiusMeters: radiusMeters,
	}
}

// RadiusMeters returns the geofence radius in effect.
func (s *AttendanceService) RadiusMeters() float64 {
	return s.radiusMeters
}

// CheckIn opens an attendance session. The check order is ownership, session state, time window, geofence.
func (s *AttendanceService) CheckIn(workerID uint64, assignmentID uuid.UUID, location geo.Point, now time.Time) (*models.Attendance, error) {
	if err := location.Validate(); err != nil {
		s.metrics.CheckIn(metrics.ResultRejected)
		return nil, validationError("location", "%v", err)
	}

	unlock := s.workerLocks.Lock(workerID)
	defer unlock()

	var attendance *models.Attendance
	err := s.store.WithinTransaction(func(tx repository.Repositories) error {
		if err := tx.Profiles.LockWorker(workerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkerNotFound
			}
			return fmt.Errorf("failed to lock worker: %w", err)
		}

		assignment, err := tx.Assignments.FindByID(assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrAssignmentNotFound
			}
			return fmt.Errorf("failed to find assignment: %w", err)
		}
		if assignment.WorkerID != workerID {
			return ErrNotAssignee
		}

		active, err := tx.Attendances.FindActive(workerID, assignmentID)
		if err == nil {
			return &ConflictError{Message: "already checked in", AttendanceID: &active.ID}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find active attendance: %w", err)
		}

		completed, err := tx.Attendances.CountCompleted(workerID, assignmentID)
		if err != nil {
			return fmt.Errorf("failed to check completed attendance: %w", err)
		}
		if completed > 0 {
			return &ConflictError{Message: "attendance already completed"}
		}

		start, end, err := s.clock.Window(assignment.Date, assignment.TimeSlot.Start, assignment.TimeSlot.End)
		if err != nil {
			return fmt.Errorf("assignment %s has an invalid time slot: %w", assignment.ID, err)
		}
		if !timewindow.IsWithin(now, start, end) {
			return &TimingError{Reason: TimingOutsideWindow, Now: now, WindowStart: start, WindowEnd: end}
		}

		distance, within := geo.WithinRadius(location, assignment.Location, s.radiusMeters)
		s.metrics.ObserveCheckInDistance(distance)
		if !within {
			return &GeofenceError{DistanceMeters: distance, RadiusMeters: s.radiusMeters}
		}

		attendance = &models.Attendance{
			WorkerID:      workerID,
			AssignmentID:  assignmentID,
			StartTime:     now,
			StartLocation: location,
			Status:        models.AttendanceStatusInProgress,
		}
		if err := tx.Attendances.Create(attendance); err != nil {
			return fmt.Errorf("failed to create attendance: %w", err)
		}
		return nil
	})
	s.metrics.CheckIn(resultOf(err))
	if err != nil {
		return nil, err
	}

	return attendance, nil
}

// CheckOut closes the open session once the required duration has elapsed.
// A failed check-out leaves the session untouched so the worker can retry.
func (s *AttendanceService) CheckOut(workerID uint64, assignmentID uuid.UUID, location geo.Point, now time.Time) (*models.Attendance, error) {
	if err := location.Validate(); err != nil {
		s.metrics.CheckOut(metrics.ResultRejected)
		return nil, validationError("location", "%v", err)
	}

	unlock := s.workerLocks.Lock(workerID)
	defer unlock()

	var attendance *models.Attendance
	var elapsed time.Duration
	err := s.store.WithinTransaction(func(tx repository.Repositories) error {
		if err := tx.Profiles.LockWorker(workerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkerNotFound
			}
			return fmt.Errorf("failed to lock worker: %w", err)
		}

		active, err := tx.Attendances.FindActive(workerID, assignmentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ConflictError{Message: "no active session"}
			}
			return fmt.Errorf("failed to find active attendance: %w", err)
		}

		assignment, err := tx.Assignments.FindByIDUnscoped(assignmentID)
		if err != nil {
			return fmt.Errorf("failed to find assignment: %w", err)
		}

		if distance, within := geo.WithinRadius(location, assignment.Location, s.radiusMeters); !within {
			return &GeofenceError{DistanceMeters: distance, RadiusMeters: s.radiusMeters}
		}

		elapsed = now.Sub(active.StartTime)
		required := time.Duration(assignment.RequiredDurationMinutes) * time.Minute
		if elapsed < required {
			worked := int(elapsed / time.Minute)
			if worked < 0 {
				worked = 0
			}
			return &TimingError{
				Reason:          TimingInsufficientDuration,
				Now:             now,
				MinutesWorked:   worked,
				MinutesRequired: assignment.RequiredDurationMinutes,
			}
		}

		lat, lng := location.Latitude, location.Longitude
		active.EndTime = &now
		active.EndLatitude = &lat
		active.EndLongitude = &lng
		if err := tx.Attendances.Complete(active); err != nil {
			if errors.Is(err, repository.ErrAttendanceNotActive) {
				return &ConflictError{Message: "no active session", AttendanceID: &active.ID}
			}
			return fmt.Errorf("failed to complete attendance: %w", err)
		}

		attendance = active
		return nil
	})
	s.metrics.CheckOut(resultOf(err))
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveWorkedMinutes(elapsed.Minutes())

	return attendance, nil
}

// ListForWorker returns a worker's attendance history, newest first.
func (s *AttendanceService) ListForWorker(workerID uint64) ([]models.Attendance, error) {
	records, err := s.store.Repositories().Attendances.List(repository.AttendanceFilter{WorkerID: &workerID})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

// ListForAssignment returns the attendance recorded against an assignment the admin created.
func (s *AttendanceService) ListForAssignment(assignmentID uuid.UUID, adminID uint64) ([]models.Attendance, error) {
	repos := s.store.Repositories()

	assignment, err := repos.Assignments.FindByID(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, fmt.Errorf("failed to find assignment: %w", err)
	}
	if assignment.AssignedByID != adminID {
		return nil, ErrNotAssignmentOwner
	}

	records, err := repos.Attendances.List(repository.AttendanceFilter{AssignmentID: &assignmentID})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrConflict):
		return metrics.ResultConflict
	case errors.Is(err, ErrTiming):
		return metrics.ResultTiming
	case errors.Is(err, ErrGeofence):
		return metrics.ResultGeofence
	case errors.Is(err, ErrValidation), errors.Is(err, ErrAuthorization), errors.Is(err, ErrNotFound):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
