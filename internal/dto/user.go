package dto

import (
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	ProfileID uint64          `json:"profile_id"`
}

// AdminDTO represents an admin profile in API responses
type AdminDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// WorkerDTO represents a worker profile in API responses
type WorkerDTO struct {
	ID               uint64     `json:"id"`
	Name             string     `json:"name"`
	AssignedLocation *geo.Point `json:"assigned_location,omitempty"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		ProfileID: user.ProfileID,
	}
}

// ToAdminDTO converts an AdminProfile model to AdminDTO
func ToAdminDTO(profile models.AdminProfile) AdminDTO {
	return AdminDTO{
		ID:   profile.ID,
		Name: profile.Name,
	}
}

// ToWorkerDTO converts a WorkerProfile model to WorkerDTO
func ToWorkerDTO(profile models.WorkerProfile) WorkerDTO {
	dto := WorkerDTO{
		ID:   profile.ID,
		Name: profile.Name,
	}
	if profile.AssignedLatitude != nil && profile.AssignedLongitude != nil {
		dto.AssignedLocation = &geo.Point{
			Latitude:  *profile.AssignedLatitude,
			Longitude: *profile.AssignedLongitude,
		}
	}
	return dto
}

// ToWorkerDTOs converts a slice of worker profiles
func ToWorkerDTOs(profiles []models.WorkerProfile) []WorkerDTO {
	items := make([]WorkerDTO, len(profiles))
	for i, profile := range profiles {
		items[i] = ToWorkerDTO(profile)
	}
	return items
}
