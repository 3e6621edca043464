package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/field-attendance-api/internal/database"
	"github.com/yukikurage/field-attendance-api/internal/geo"
	"github.com/yukikurage/field-attendance-api/internal/locks"
	"github.com/yukikurage/field-attendance-api/internal/metrics"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"github.com/yukikurage/field-attendance-api/internal/repository"
	"github.com/yukikurage/field-attendance-api/internal/timewindow"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testRadiusMeters = 100.0

type serviceTestEnv struct {
	db          *gorm.DB
	registry    *prometheus.Registry
	auth        *AuthService
	assignments *AssignmentService
	attendance  *AttendanceService
}

func setupServiceTestEnv(t *testing.T) serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	// one connection so goroutines in the same test share the in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	store := repository.NewStore(db)
	workerLocks := locks.NewWorkerLocks()
	clock := timewindow.New(time.UTC)

	return serviceTestEnv{
		db:          db,
		registry:    registry,
		auth:        NewAuthService(repository.NewUserRepository(db), repository.NewProfileRepository(db)),
		assignments: NewAssignmentService(store, workerLocks, clock, m, 3),
		attendance:  NewAttendanceService(store, workerLocks, clock, m, testRadiusMeters),
	}
}

func (env serviceTestEnv) createAdmin(t *testing.T, name string) *models.AdminProfile {
	t.Helper()
	admin := &models.AdminProfile{Name: name}
	require.NoError(t, env.db.Create(admin).Error)
	return admin
}

func (env serviceTestEnv) createWorker(t *testing.T, name string) *models.WorkerProfile {
	t.Helper()
	worker := &models.WorkerProfile{Name: name}
	require.NoError(t, env.db.Create(worker).Error)
	return worker
}

var siteNewYork = geo.Point{Latitude: 40.0, Longitude: -74.0}

func createInput(adminID, workerID uint64, date, start, end string) CreateAssignmentInput {
	location := siteNewYork
	return CreateAssignmentInput{
		WorkerID:     workerID,
		AssignedByID: adminID,
		Date:         date,
		Location:     &location,
		TimeSlot:     models.TimeSlot{Start: start, End: end},
	}
}

func at(date, clock string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+clock, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}
