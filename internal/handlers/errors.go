package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
	"github.com/yukikurage/field-attendance-api/internal/services"
)

// respondServiceError maps service errors onto the API error envelope.
// Anything that is not a domain error is logged and reported as a 500.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var geofenceErr *services.GeofenceError
	var timingErr *services.TimingError

	switch {
	case errors.As(err, &validationErr):
		apierrors.BadRequestWithDetails(c, validationErr.Error(), gin.H{"field": validationErr.Field})
	case errors.Is(err, services.ErrValidation):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrAuthorization):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.As(err, &conflictErr):
		apierrors.ConflictWithDetails(c, conflictErr.Error(), conflictDetails(conflictErr))
	case errors.Is(err, services.ErrConflict):
		apierrors.Conflict(c, err.Error())
	case errors.As(err, &geofenceErr):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeGeofenceViolation, geofenceErr.Error(), dto.GeofenceDetails{
			DistanceMeters: geofenceErr.DistanceMeters,
			RadiusMeters:   geofenceErr.RadiusMeters,
		})
	case errors.As(err, &timingErr):
		apierrors.UnprocessableEntity(c, apierrors.ErrCodeTimingViolation, timingErr.Error(), timingDetails(timingErr))
	default:
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		apierrors.InternalError(c, "Internal server error")
	}
}

func conflictDetails(err *services.ConflictError) interface{} {
	if err.Assignment != nil {
		return dto.ConflictDetails{
			AssignmentID: err.Assignment.ID,
			Date:         err.Assignment.Date,
			TimeSlot: dto.TimeSlotDTO{
				Start: err.Assignment.TimeSlot.Start,
				End:   err.Assignment.TimeSlot.End,
			},
		}
	}
	return dto.AttendanceConflictDetails{AttendanceID: err.AttendanceID}
}

func timingDetails(err *services.TimingError) dto.TimingDetails {
	details := dto.TimingDetails{Reason: string(err.Reason)}
	switch err.Reason {
	case services.TimingOutsideWindow:
		start, end := err.WindowStart.In(time.UTC), err.WindowEnd.In(time.UTC)
		details.WindowStart = &start
		details.WindowEnd = &end
	case services.TimingInsufficientDuration:
		worked, required := err.MinutesWorked, err.MinutesRequired
		details.MinutesWorked = &worked
		details.MinutesRequired = &required
	}
	return details
}

func loggerOrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
