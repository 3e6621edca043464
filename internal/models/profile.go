package models

import "time"

type AdminProfile struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

type WorkerProfile struct {
	ID                uint64    `gorm:"primarykey" json:"id"`
	Name              string    `gorm:"type:varchar(255);not null" json:"name"`
	AssignedLatitude  *float64  `json:"assigned_latitude,omitempty"`
	AssignedLongitude *float64  `json:"assigned_longitude,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}
