package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/field-attendance-api/internal/constants"
	"github.com/yukikurage/field-attendance-api/internal/dto"
	apierrors "github.com/yukikurage/field-attendance-api/internal/errors"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/services"
)

func TestAuthHandler_Signup(t *testing.T) {
	env := setupHandlerTestEnv(t)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/signup", env.authHandler.Signup)

	payload := map[string]interface{}{
		"name":     "New Worker",
		"email":    "worker@example.com",
		"password": "supersecret",
		"role":     "worker",
		"assigned_location": map[string]float64{
			"latitude":  35.0,
			"longitude": 139.0,
		},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "worker@example.com", response.Email)
	require.Equal(t, models.RoleWorker, response.Role)
	require.NotZero(t, response.ProfileID)
}

func TestAuthHandler_Signup_Errors(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.signup(t, "taken", models.RoleAdmin)

	r := gin.New()
	r.POST("/api/auth/signup", env.authHandler.Signup)

	tests := []struct {
		name    string
		payload map[string]string
		status  int
		code    string
	}{
		{"short password", map[string]string{"name": "a", "email": "a@example.com", "password": "short", "role": "admin"}, http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"bad role", map[string]string{"name": "a", "email": "a@example.com", "password": "supersecret", "role": "owner"}, http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"missing field", map[string]string{"name": "a", "password": "supersecret", "role": "admin"}, http.StatusBadRequest, apierrors.ErrCodeInvalidInput},
		{"duplicate email", map[string]string{"name": "b", "email": "taken@example.com", "password": "supersecret", "role": "admin"}, http.StatusConflict, apierrors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.payload)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)
			var apiErr apierrors.APIError
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
			require.Equal(t, tt.code, apiErr.Code)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupHandlerTestEnv(t)

	_, err := env.authService.Signup(services.SignupInput{
		Name:     "existing",
		Email:    "existing@example.com",
		Password: "supersecret",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.POST("/api/auth/login", env.authHandler.Login)

	payload := map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, payload["email"], response.Email)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "expected session cookie to be set")

	payload["password"] = "wrongpassword"
	body, err = json.Marshal(payload)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupHandlerTestEnv(t)

	user, err := env.authService.Signup(services.SignupInput{
		Name:     "current-user",
		Email:    "current@example.com",
		Password: "supersecret",
		Role:     models.RoleWorker,
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUserID, user.ID)

	env.authHandler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Name, response.Name)
	require.Equal(t, models.RoleWorker, response.Role)
}
