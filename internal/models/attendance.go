package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendanceStatusInProgress AttendanceStatus = "IN_PROGRESS"
	AttendanceStatusCompleted  AttendanceStatus = "COMPLETED"
)

// Attendance is a worker's presence interval against one assignment.
type Attendance struct {
	ID            uuid.UUID        `gorm:"type:char(36);primaryKey" json:"id"`
	WorkerID      uint64           `gorm:"not null;index" json:"worker_id"`
	AssignmentID  uuid.UUID        `gorm:"type:char(36);not null;index" json:"assignment_id"`
	StartTime     time.Time        `gorm:"not null" json:"start_time"`
	StartLocation geo.Point        `gorm:"embedded;embeddedPrefix:start_" json:"start_location"`
	EndTime       *time.Time       `json:"end_time"`
	EndLatitude   *float64         `json:"-"`
	EndLongitude  *float64         `json:"-"`
	Status        AttendanceStatus `gorm:"type:varchar(20);not null;default:'IN_PROGRESS'" json:"status"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`

	// Relations
	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"-"`
}

func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// EndLocation returns the check-out location, or nil while the session is open.
func (a *Attendance) EndLocation() *geo.Point {
	if a.EndLatitude == nil || a.EndLongitude == nil {
		return nil
	}
	return &geo.Point{Latitude: *a.EndLatitude, Longitude: *a.EndLongitude}
}
