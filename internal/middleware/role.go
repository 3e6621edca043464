package middleware

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-attendance-api/internal/constants"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
	"github.com/yukikurage/field-attendance-api/internal/services"
)

// PrincipalResolver loads the caller's role profile
type PrincipalResolver interface {
	ResolvePrincipal(userID uint64) (services.Principal, error)
}

// RequireAdmin lets only admins through and stores their AdminPrincipal in context
func RequireAdmin(resolver PrincipalResolver) gin.HandlerFunc {
	return requirePrincipal(resolver, func(p services.Principal) bool {
		_, ok := p.(services.AdminPrincipal)
		return ok
	}, "Admin access required")
}

// RequireWorker lets only workers through and stores their WorkerPrincipal in context
func RequireWorker(resolver PrincipalResolver) gin.HandlerFunc {
	return requirePrincipal(resolver, func(p services.Principal) bool {
		_, ok := p.(services.WorkerPrincipal)
		return ok
	}, "Worker access required")
}

func requirePrincipal(resolver PrincipalResolver, allowed func(services.Principal) bool, forbidden string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		principal, err := resolver.ResolvePrincipal(userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				apierrors.Unauthorized(c, "User no longer exists")
			case errors.Is(err, services.ErrProfileMissing):
				apierrors.Forbidden(c, "User has no profile for its role")
			default:
				slog.Error("failed to resolve principal", "user_id", userID, "error", err)
				apierrors.InternalError(c, "Failed to resolve user")
			}
			c.Abort()
			return
		}

		if !allowed(principal) {
			apierrors.Forbidden(c, forbidden)
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyPrincipal, principal)
		c.Next()
	}
}

// GetPrincipal retrieves the principal stored by RequireAdmin or RequireWorker
func GetPrincipal(c *gin.Context) (services.Principal, bool) {
	value, exists := c.Get(constants.ContextKeyPrincipal)
	if !exists {
		return nil, false
	}
	principal, ok := value.(services.Principal)
	return principal, ok
}

// GetAdmin retrieves the admin principal from context
func GetAdmin(c *gin.Context) (services.AdminPrincipal, bool) {
	principal, ok := GetPrincipal(c)
	if !ok {
		return services.AdminPrincipal{}, false
	}
	admin, ok := principal.(services.AdminPrincipal)
	return admin, ok
}

// GetWorker retrieves the worker principal from context
func GetWorker(c *gin.Context) (services.WorkerPrincipal, bool) {
	principal, ok := GetPrincipal(c)
	if !ok {
		return services.WorkerPrincipal{}, false
	}
	worker, ok := principal.(services.WorkerPrincipal)
	return worker, ok
}
