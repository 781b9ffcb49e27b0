package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/db"
)

// setupTestDB opens an isolated in-memory SQLite DB with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	database, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db.Models()...))
	return database
}

// seedUser inserts a complete, eligible user at the given location.
func seedUser(t *testing.T, gdb *gorm.DB, id uint64, gender string, age int, lat, lng float64) *db.User {
	t.Helper()

	user := db.User{
		ID:               id,
		Name:             fmt.Sprintf("user%d", id),
		Email:            fmt.Sprintf("u%d@test.com", id),
		Phone:            fmt.Sprintf("+49170%07d", id),
		PasswordHash:     "x",
		Gender:           gender,
		Age:              age,
		Latitude:         &lat,
		Longitude:        &lng,
		LastActiveAt:     time.Now().Add(-time.Duration(id) * time.Hour),
		RegistrationDone: true,
		Active:           true,
		Verification:     db.VerificationNone,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

// seedReaction inserts a reaction with a controlled timestamp.
func seedReaction(t *testing.T, gdb *gorm.DB, reactorID, userID uint64, rtype string, at time.Time) {
	t.Helper()

	reaction := db.Reaction{
		ReactorID: reactorID,
		UserID:    userID,
		Type:      rtype,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, gdb.Create(&reaction).Error)
}

// candidateIDs runs a bare users query with the given scopes, viewer
// excluded, ordered by id. Used to exercise exclusion scopes in isolation.
func candidateIDs(t *testing.T, gdb *gorm.DB, viewerID uint64, scopes ...func(*gorm.DB) *gorm.DB) []uint64 {
	t.Helper()

	var ids []uint64
	query := gdb.Table("users").
		Where("users.id <> ?", viewerID).
		Order("users.id ASC")
	for _, scope := range scopes {
		query = query.Scopes(scope)
	}
	require.NoError(t, query.Pluck("users.id", &ids).Error)
	return ids
}
