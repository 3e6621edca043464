package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/utils"
)

// TimeSlotDTO represents a wall-clock slot in API responses
type TimeSlotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AssignmentDTO represents an assignment in API responses
type AssignmentDTO struct {
	ID                      uuid.UUID   `json:"id"`
	WorkerID                uint64      `json:"worker_id"`
	AssignedByID            uint64      `json:"assigned_by_id"`
	Date                    string      `json:"date"`
	Location                geo.Point   `json:"location"`
	TimeSlot                TimeSlotDTO `json:"time_slot"`
	RequiredDurationMinutes int         `json:"required_duration_minutes"`
	Description             string      `json:"description"`
	CreatedAt               time.Time   `json:"created_at"`
	UpdatedAt               time.Time   `json:"updated_at"`
	Worker                  *WorkerDTO  `json:"worker,omitempty"`
	AssignedBy              *AdminDTO   `json:"assigned_by,omitempty"`
}

// AssignmentListResponse represents a paginated list of assignments
type AssignmentListResponse struct {
	Assignments []AssignmentDTO `json:"assignments"`
	Page        int             `json:"page"`
	PageSize    int             `json:"page_size"`
	TotalCount  int64           `json:"total_count"`
	TotalPages  int             `json:"total_pages"`
}

// ToAssignmentDTO converts an Assignment model to AssignmentDTO
func ToAssignmentDTO(assignment models.Assignment) AssignmentDTO {
	dto := AssignmentDTO{
		ID:                      assignment.ID,
		WorkerID:                assignment.WorkerID,
		AssignedByID:            assignment.AssignedByID,
		Date:                    assignment.Date,
		Location:                assignment.Location,
		TimeSlot:                TimeSlotDTO{Start: assignment.TimeSlot.Start, End: assignment.TimeSlot.End},
		RequiredDurationMinutes: assignment.RequiredDurationMinutes,
		Description:             assignment.Description,
		CreatedAt:               assignment.CreatedAt,
		UpdatedAt:               assignment.UpdatedAt,
	}

	// Include profiles if preloaded
	if assignment.Worker.ID != 0 {
		worker := ToWorkerDTO(assignment.Worker)
		dto.Worker = &worker
	}
	if assignment.AssignedBy.ID != 0 {
		admin := ToAdminDTO(assignment.AssignedBy)
		dto.AssignedBy = &admin
	}

	return dto
}

// ToAssignmentDTOs converts a slice of assignments
func ToAssignmentDTOs(assignments []models.Assignment) []AssignmentDTO {
	items := make([]AssignmentDTO, len(assignments))
	for i, assignment := range assignments {
		items[i] = ToAssignmentDTO(assignment)
	}
	return items
}

// ToAssignmentListResponse converts a page of assignments to AssignmentListResponse
func ToAssignmentListResponse(assignments []models.Assignment, params utils.PaginationParams, totalCount int64) AssignmentListResponse {
	return AssignmentListResponse{
		Assignments: ToAssignmentDTOs(assignments),
		Page:        params.Page,
		PageSize:    params.Limit,
		TotalCount:  totalCount,
		TotalPages:  params.TotalPages(totalCount),
	}
}

// ConflictDetails describes the existing assignment that blocks a write
type ConflictDetails struct {
	AssignmentID uuid.UUID   `json:"assignment_id"`
	Date         string      `json:"date"`
	TimeSlot     TimeSlotDTO `json:"time_slot"`
}
