package middleware

import (
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/yukikurage/field-attendance-api/internal/constants"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
)

// Claims are the claims read from an externally issued bearer token
type Claims struct {
	UserID uint64 `json:"user_id"`
	jwt.RegisteredClaims
}

// RequireAuth checks if the user is authenticated via session or, when jwtSecret is set, an HS256 bearer token
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); jwtSecret != "" && strings.HasPrefix(header, "Bearer ") {
			userID, ok := parseBearer(strings.TrimPrefix(header, "Bearer "), jwtSecret)
			if !ok {
				apierrors.Unauthorized(c, "Invalid token")
				c.Abort()
				return
			}
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

func parseBearer(token, secret string) (uint64, bool) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid || claims.UserID == 0 {
		return 0, false
	}
	return claims.UserID, true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
