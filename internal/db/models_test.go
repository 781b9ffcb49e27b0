package db_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/db"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.AutoMigrate(db.Models()...))
	return database
}

// Gorm omits zero-value fields from the INSERT when the column carries a
// default tag, so a toggle that can legitimately be false must not have
// one. These round-trips pin that down.
func TestSearchSettingsFalseTogglesPersist(t *testing.T) {
	gdb := setupTestDB(t)

	lat, lng := 52.52, 13.405
	require.NoError(t, gdb.Create(&db.User{
		ID: 1, Name: "u1", Email: "u1@test.com", Phone: "+491700000001",
		PasswordHash: "x", Gender: "female", Age: 28,
		Latitude: &lat, Longitude: &lng,
		LastActiveAt: time.Now(), RegistrationDone: true, Active: true,
		Verification: db.VerificationNone,
	}).Error)

	require.NoError(t, gdb.Create(&db.SearchSettings{
		UserID: 1, RadiusKm: 50, AgeMin: 18, AgeMax: 99,
		ShowAge: false, ShowDistance: false, ShowGender: false, ShowOrientation: false,
	}).Error)

	var got db.SearchSettings
	require.NoError(t, gdb.First(&got, "user_id = ?", 1).Error)
	assert.False(t, got.ShowAge)
	assert.False(t, got.ShowDistance)
	assert.False(t, got.ShowGender)
	assert.False(t, got.ShowOrientation)
}

func TestUserInactiveAtCreationPersists(t *testing.T) {
	gdb := setupTestDB(t)

	lat, lng := 52.52, 13.405
	require.NoError(t, gdb.Create(&db.User{
		ID: 1, Name: "u1", Email: "u1@test.com", Phone: "+491700000001",
		PasswordHash: "x", Gender: "female", Age: 28,
		Latitude: &lat, Longitude: &lng,
		LastActiveAt: time.Now(), RegistrationDone: true, Active: false,
		Verification: db.VerificationNone,
	}).Error)

	var got db.User
	require.NoError(t, gdb.First(&got, 1).Error)
	assert.False(t, got.Active)
}
