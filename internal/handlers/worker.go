package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yukikurage/field-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/middleware"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/services"
)

// WorkerHandler serves the worker-facing assignment and attendance endpoints
type WorkerHandler struct {
	assignmentService *services.AssignmentService
	attendanceService *services.AttendanceService
	logger            *slog.Logger
	now               func() time.Time
}

// NewWorkerHandler creates a new WorkerHandler
func NewWorkerHandler(assignmentService *services.AssignmentService, attendanceService *services.AttendanceService, logger *slog.Logger) *WorkerHandler {
	return &WorkerHandler{
		assignmentService: assignmentService,
		attendanceService: attendanceService,
		logger:            loggerOrDefault(logger),
		now:               time.Now,
	}
}

// ListAssignments returns the worker's assignments. filter is all, today or upcoming.
func (h *WorkerHandler) ListAssignments(c *gin.Context) {
	worker, ok := middleware.GetWorker(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	filter, err := h.assignmentService.WorkerFilterFor(c.Query("filter"), h.now())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	assignments, err := h.assignmentService.ListForWorker(worker.WorkerID(), filter)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assignments": dto.ToAssignmentDTOs(assignments),
	})
}

// GetAssignment returns one of the worker's assignments
func (h *WorkerHandler) GetAssignment(c *gin.Context) {
	worker, ok := middleware.GetWorker(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	id, ok := parseAssignmentID(c)
	if !ok {
		return
	}

	assignment, err := h.assignmentService.GetForWorker(id, worker.WorkerID())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAssignmentDTO(*assignment))
}

type attendanceRequest struct {
	AssignmentID string     `json:"assignment_id" binding:"required"`
	Location     *geo.Point `json:"location" binding:"required"`
}

// CheckIn starts attendance for an assignment
func (h *WorkerHandler) CheckIn(c *gin.Context) {
	h.recordAttendance(c, http.StatusCreated, h.attendanceService.CheckIn)
}

// CheckOut completes attendance for an assignment
func (h *WorkerHandler) CheckOut(c *gin.Context) {
	h.recordAttendance(c, http.StatusOK, h.attendanceService.CheckOut)
}

func (h *WorkerHandler) recordAttendance(
	c *gin.Context,
	status int,
	record func(workerID uint64, assignmentID uuid.UUID, location geo.Point, now time.Time) (*models.Attendance, error),
) {
	worker, ok := middleware.GetWorker(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var req attendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	assignmentID, err := uuid.Parse(req.AssignmentID)
	if err != nil {
		apierrors.BadRequest(c, "Invalid assignment ID")
		return
	}

	attendance, err := record(worker.WorkerID(), assignmentID, *req.Location, h.now())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(status, dto.ToAttendanceDTO(*attendance))
}

// ListAttendance returns the worker's attendance history, newest first
func (h *WorkerHandler) ListAttendance(c *gin.Context) {
	worker, ok := middleware.GetWorker(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	records, err := h.attendanceService.ListForWorker(worker.WorkerID())
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attendance": dto.ToAttendanceDTOs(records),
	})
}
