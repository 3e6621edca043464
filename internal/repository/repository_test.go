package repository

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/field-attendance-api/internal/database"
	"github.com/yukikurage/field-attendance-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, database.MigrateDatabase(db))
	return db
}

func createProfiles(t *testing.T, db *gorm.DB) (*models.AdminProfile, *models.WorkerProfile) {
	t.Helper()

	admin := &models.AdminProfile{Name: "Admin"}
	require.NoError(t, db.Create(admin).Error)
	worker := &models.WorkerProfile{Name: "Worker"}
	require.NoError(t, db.Create(worker).Error)
	return admin, worker
}
