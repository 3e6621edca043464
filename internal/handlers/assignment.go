package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/middleware"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/services"
	"github.com/yukikurage/field-attendance-api/internal/utils"
)

// AssignmentHandler serves the admin assignment endpoints
type AssignmentHandler struct {
	assignmentService *services.AssignmentService
	attendanceService *services.AttendanceService
	authService       *services.AuthService
	logger            *slog.Logger
}

// NewAssignmentHandler creates a new AssignmentHandler
func NewAssignmentHandler(assignmentService *services.AssignmentService, attendanceService *services.AttendanceService, authService *services.AuthService, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		attendanceService: attendanceService,
		authService:       authService,
		logger:            loggerOrDefault(logger),
	}
}

type timeSlotRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type createAssignmentRequest struct {
	WorkerID                uint64           `json:"worker_id" binding:"required"`
	Date                    string           `json:"date" binding:"required"`
	Location                *geo.Point       `json:"location" binding:"required"`
	TimeSlot                *timeSlotRequest `json:"time_slot" binding:"required"`
	RequiredDurationMinutes int              `json:"required_duration_minutes"`
	Description             string           `json:"description"`
}

type updateAssignmentRequest struct {
	Date     *string    `json:"date"`
	Location *geo.Point `json:"location"`
	TimeSlot *struct {
		Start *string `json:"start"`
		End   *string `json:"end"`
	} `json:"time_slot"`
	RequiredDurationMinutes *int    `json:"required_duration_minutes"`
	Description             *string `json:"description"`
}

// CreateAssignment schedules an assignment for a worker
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignment, err := h.assignmentService.Create(services.CreateAssignmentInput{
		WorkerID:                req.WorkerID,
		AssignedByID:            admin.AdminID(),
		Date:                    req.Date,
		Location:                req.Location,
		TimeSlot:                models.TimeSlot{Start: req.TimeSlot.Start, End: req.TimeSlot.End},
		RequiredDurationMinutes: req.RequiredDurationMinutes,
		Description:             req.Description,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssignmentDTO(*assignment))
}

// ListAssignments returns the assignments the admin created, newest first
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)

	assignments, total, err := h.assignmentService.ListForAdmin(admin.AdminID(), params)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentListResponse(assignments, params, total))
}

// GetAssignment returns a single assignment owned by the admin
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseAssignmentID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetForAdmin(id, admin.AdminID())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// UpdateAssignment applies a partial update
func (h *AssignmentHandler) UpdateAssignment(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseAssignmentID(c)
	if !ok {
		return
	}

	var req updateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateAssignmentInput{
		Date:                    req.Date,
		Location:                req.Location,
		RequiredDurationMinutes: req.RequiredDurationMinutes,
		Description:             req.Description,
	}
	if req.TimeSlot != nil {
		input.StartTime = req.TimeSlot.Start
		input.EndTime = req.TimeSlot.End
	}

	assignment, err := h.assignmentService.Update(id, admin.AdminID(), input)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

// DeleteAssignment deletes an assignment owned by the admin
func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseAssignmentID(c)
	if !ok {
		return
	}

	if err := h.assignmentService.Delete(id, admin.AdminID()); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Assignment deleted successfully",
	})
}

// ListAssignmentAttendance returns the attendance recorded against an owned assignment
func (h *AssignmentHandler) ListAssignmentAttendance(c *gin.Context) {
	admin, ok := middleware.GetAdmin(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseAssignmentID(c)
	if !ok {
		return
	}

	records, err := h.attendanceService.ListForAssignment(id, admin.AdminID())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendance": dto.ToAttendanceDTOs(records),
	})
}

// ListWorkers returns every worker an admin can assign
func (h *AssignmentHandler) ListWorkers(c *gin.Context) {
	workers, err := h.authService.ListWorkers()
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workers": dto.ToWorkerDTOs(workers),
	})
}

func parseAssignmentID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment ID")
		return uuid.Nil, false
	}
	return id, true
}
