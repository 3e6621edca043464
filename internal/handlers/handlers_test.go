package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/field-attendance-api/internal/constants"
	"github.com/yukikurage/field-attendance-api/internal/database"
	"github.com/yukikurage/field-attendance-api/internal/locks"
	"github.com/yukikurage/field-attendance-api/internal/metrics"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/repository"
	"github.com/yukikurage/field-attendance-api/internal/services"
	"github.com/yukikurage/field-attendance-api/internal/timewindow"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testRadiusMeters = 100.0

type handlerTestEnv struct {
	db                *gorm.DB
	authService       *services.AuthService
	assignmentService *services.AssignmentService
	attendanceService *services.AttendanceService
	authHandler       *AuthHandler
	assignmentHandler *AssignmentHandler
	workerHandler     *WorkerHandler
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	database.SetDB(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New(prometheus.NewRegistry())
	store := repository.NewStore(db)
	workerLocks := locks.NewWorkerLocks()
	clock := timewindow.New(time.UTC)

	authService := services.NewAuthService(repository.NewUserRepository(db), repository.NewProfileRepository(db))
	assignmentService := services.NewAssignmentService(store, workerLocks, clock, m, constants.DefaultUpcomingLimit)
	attendanceService := services.NewAttendanceService(store, workerLocks, clock, m, testRadiusMeters)

	return handlerTestEnv{
		db:                db,
		authService:       authService,
		assignmentService: assignmentService,
		attendanceService: attendanceService,
		authHandler:       NewAuthHandler(authService, logger),
		assignmentHandler: NewAssignmentHandler(assignmentService, attendanceService, authService, logger),
		workerHandler:     NewWorkerHandler(assignmentService, attendanceService, logger),
	}
}

// router builds the full API with cookie sessions
func (env handlerTestEnv) router() *gin.Engine {
	r := gin.New()
	r.Use(sessions.Sessions(constants.SessionCookieName, cookie.NewStore([]byte("secret"))))
	Routes{
		Auth:        env.authHandler,
		Assignments: env.assignmentHandler,
		Workers:     env.workerHandler,
		AuthService: env.authService,
	}.Register(r)
	return r
}

func (env handlerTestEnv) signup(t *testing.T, name string, role models.UserRole) (*models.User, services.Principal) {
	t.Helper()
	user, err := env.authService.Signup(services.SignupInput{
		Name:     name,
		Email:    name + "@example.com",
		Password: "supersecret",
		Role:     role,
	})
	require.NoError(t, err)
	principal, err := env.authService.ResolvePrincipal(user.ID)
	require.NoError(t, err)
	return user, principal
}

// principalContext creates a test context as if RequireAuth and a role middleware had run
func principalContext(method, url string, body interface{}, principal services.Principal) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if principal != nil {
		c.Set(constants.ContextKeyUserID, principal.UserID())
		c.Set(constants.ContextKeyPrincipal, principal)
	}
	return c, w
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
