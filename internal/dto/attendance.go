package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/models"
)

// AttendanceDTO represents an attendance record in API responses
type AttendanceDTO struct {
	ID            uuid.UUID               `json:"id"`
	WorkerID      uint64                  `json:"worker_id"`
	AssignmentID  uuid.UUID               `json:"assignment_id"`
	StartTime     time.Time               `json:"start_time"`
	StartLocation geo.Point               `json:"start_location"`
	EndTime       *time.Time              `json:"end_time"`
	EndLocation   *geo.Point              `json:"end_location"`
	Status        models.AttendanceStatus `json:"status"`
}

// ToAttendanceDTO converts an Attendance model to AttendanceDTO
func ToAttendanceDTO(attendance models.Attendance) AttendanceDTO {
	return AttendanceDTO{
		ID:            attendance.ID,
		WorkerID:      attendance.WorkerID,
		AssignmentID:  attendance.AssignmentID,
		StartTime:     attendance.StartTime,
		StartLocation: attendance.StartLocation,
		EndTime:       attendance.EndTime,
		EndLocation:   attendance.EndLocation(),
		Status:        attendance.Status,
	}
}

// ToAttendanceDTOs converts a slice of attendance records
func ToAttendanceDTOs(records []models.Attendance) []AttendanceDTO {
	items := make([]AttendanceDTO, len(records))
	for i, record := range records {
		items[i] = ToAttendanceDTO(record)
	}
	return items
}

// AttendanceConflictDetails points at the session a check-in or check-out collided with
type AttendanceConflictDetails struct {
	AttendanceID *uuid.UUID `json:"attendance_id,omitempty"`
}

// GeofenceDetails reports how far the caller was from the assignment site
type GeofenceDetails struct {
	DistanceMeters float64 `json:"distance_meters"`
	RadiusMeters   float64 `json:"radius_meters"`
}

// TimingDetails reports the broken time rule
type TimingDetails struct {
	Reason          string     `json:"reason"`
	WindowStart     *time.Time `json:"window_start,omitempty"`
	WindowEnd       *time.Time `json:"window_end,omitempty"`
	MinutesWorked   *int       `json:"minutes_worked,omitempty"`
	MinutesRequired *int       `json:"minutes_required,omitempty"`
}
