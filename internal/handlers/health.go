package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
	"gorm.io/gorm"
)

// Health reports whether the database answers a ping
func Health(db *gorm.DB, logger *slog.Logger) gin.HandlerFunc {
	logger = loggerOrDefault(logger)
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			logger.Error("health check failed", "error", err)
			apierrors.ServiceUnavailable(c, "Database is unreachable")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Field Attendance API is running",
		})
	}
}
