package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"gorm.io/gorm"
)

// TimeSlot holds zero-padded "HH:MM" wall-clock bounds. The slot is the half-open range [Start, End).
type TimeSlot struct {
	Start string `gorm:"type:char(5);not null" json:"start"`
	End   string `gorm:"type:char(5);not null" json:"end"`
}

// Overlaps reports whether two slots intersect under half-open semantics.
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start < other.End && other.Start < s.End
}

type Assignment struct {
	ID                      uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id"`
	WorkerID                uint64         `gorm:"not null;index" json:"worker_id"`
	AssignedByID            uint64         `gorm:"not null;index" json:"assigned_by_id"`
	Date                    string         `gorm:"type:char(10);not null;index" json:"date"`
	Location                geo.Point      `gorm:"embedded" json:"location"`
	TimeSlot                TimeSlot       `gorm:"embedded;embeddedPrefix:slot_" json:"time_slot"`
	RequiredDurationMinutes int            `gorm:"not null;default:0" json:"required_duration_minutes"`
	Description             string         `gorm:"type:text" json:"description"`
	CreatedAt               time.Time      `json:"created_at"`
	UpdatedAt               time.Time      `json:"updated_at"`
	DeletedAt               gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Worker     WorkerProfile `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	AssignedBy AdminProfile  `gorm:"foreignKey:AssignedByID" json:"assigned_by,omitempty"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
