package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/models"
)

// Error kinds. Every domain error returned by this package matches exactly one of them with errors.Is.
// Anything else is an infrastructure failure.
var (
	ErrValidation    = errors.New("validation failed")
	ErrAuthorization = errors.New("not authorized")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrGeofence      = errors.New("outside geofence")
	ErrTiming        = errors.New("outside allowed time")
)

// domainError is a fixed message tied to an error kind.
type domainError struct {
	kind error
	msg  string
}

func newDomainError(kind error, msg string) error {
	return &domainError{kind: kind, msg: msg}
}

func (e *domainError) Error() string { return e.msg }

func (e *domainError) Unwrap() error { return e.kind }

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func validationError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// ConflictError reports a clash with existing state: an overlapping assignment or an attendance session.
type ConflictError struct {
	Message string
	// Assignment is the existing assignment whose slot overlaps, when the conflict is a double booking.
	Assignment *models.Assignment
	// AttendanceID is the existing session, when the conflict is about attendance state.
	AttendanceID *uuid.UUID
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrConflict }

// GeofenceError reports a location farther from the assignment site than the allowed radius.
type GeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
}

func (e *GeofenceError) Error() string {
	return fmt.Sprintf("location is %.0f m from the assignment site, allowed radius is %.0f m", e.DistanceMeters, e.RadiusMeters)
}

func (e *GeofenceError) Unwrap() error { return ErrGeofence }

// TimingReason tells which time rule a TimingError broke.
type TimingReason string

const (
	TimingOutsideWindow        TimingReason = "outside_window"
	TimingInsufficientDuration TimingReason = "insufficient_duration"
)

// TimingError reports a check-in outside the slot or a check-out before the required duration.
type TimingError struct {
	Reason TimingReason
	Now    time.Time

	// Set for TimingOutsideWindow
	WindowStart time.Time
	WindowEnd   time.Time

	// Set for TimingInsufficientDuration
	MinutesWorked   int
	MinutesRequired int
}

func (e *TimingError) Error() string {
	if e.Reason == TimingInsufficientDuration {
		return fmt.Sprintf("%d mins worked, %d mins required", e.MinutesWorked, e.MinutesRequired)
	}
	return fmt.Sprintf("check-in allowed between %s and %s",
		e.WindowStart.Format(time.RFC3339), e.WindowEnd.Format(time.RFC3339))
}

func (e *TimingError) Unwrap() error { return ErrTiming }

// Shared not-found and authorization errors.
var (
	ErrUserNotFound       = newDomainError(ErrNotFound, "user not found")
	ErrAdminNotFound      = newDomainError(ErrNotFound, "admin profile not found")
	ErrWorkerNotFound     = newDomainError(ErrNotFound, "worker profile not found")
	ErrAssignmentNotFound = newDomainError(ErrNotFound, "assignment not found")

	ErrNotAssignmentOwner = newDomainError(ErrAuthorization, "only the admin who created the assignment can perform this action")
	ErrNotAssignee        = newDomainError(ErrAuthorization, "assignment belongs to another worker")
)
