package toplist_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/app"
	"github.com/heartlinkapp/discovery/internal/config"
	"github.com/heartlinkapp/discovery/internal/db"
	apperrors "github.com/heartlinkapp/discovery/internal/errors"
	"github.com/heartlinkapp/discovery/internal/service/toplist"
)

const (
	berlinLat = 52.5200
	berlinLng = 13.4050
)

func setupService(t *testing.T) (*toplist.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, gdb.AutoMigrate(db.Models()...))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, nil, log, config.New())
	return toplist.NewService(appCtx), gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, id uint64, age int, lat, lng float64) *db.User {
	t.Helper()

	user := db.User{
		ID: id, Name: fmt.Sprintf("user%d", id),
		Email: fmt.Sprintf("u%d@test.com", id), Phone: fmt.Sprintf("+49170%07d", id),
		PasswordHash: "x", Gender: "female", Age: age,
		Latitude: &lat, Longitude: &lng,
		LastActiveAt: time.Now(), RegistrationDone: true, Active: true,
		Verification: db.VerificationNone,
	}
	require.NoError(t, gdb.Create(&user).Error)
	return &user
}

// giveLikes creates n fresh fans for target, each liking them once.
func giveLikes(t *testing.T, gdb *gorm.DB, target uint64, firstID uint64, n int) {
	t.Helper()
	at := time.Now().Add(-200 * time.Hour)
	for i := 0; i < n; i++ {
		fan := seedUser(t, gdb, firstID+uint64(i), 25, berlinLat, berlinLng)
		require.NoError(t, gdb.Create(&db.Reaction{
			ReactorID: fan.ID, UserID: target, Type: db.ReactionLike,
			CreatedAt: at, UpdatedAt: at,
		}).Error)
	}
}

func TestTopProfilesRanking(t *testing.T) {
	svc, gdb := setupService(t)

	viewer := seedUser(t, gdb, 1, 30, berlinLat, berlinLng)
	popular := seedUser(t, gdb, 2, 28, berlinLat+0.09, berlinLng)
	runnerUp := seedUser(t, gdb, 3, 27, berlinLat, berlinLng)

	giveLikes(t, gdb, popular.ID, 100, 4)
	giveLikes(t, gdb, runnerUp.ID, 200, 2)

	dtos, err := svc.TopProfiles(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(dtos), 2)

	assert.Equal(t, popular.ID, dtos[0].ID)
	assert.EqualValues(t, 4, dtos[0].LikeCount)
	assert.Equal(t, runnerUp.ID, dtos[1].ID)
	assert.EqualValues(t, 2, dtos[1].LikeCount)

	require.NotNil(t, dtos[0].DistanceKm)
	assert.InDelta(t, 10.0, *dtos[0].DistanceKm, 0.5)
}

func TestTopProfilesRecentExchangeHidden(t *testing.T) {
	svc, gdb := setupService(t)
	now := time.Now()

	viewer := seedUser(t, gdb, 1, 30, berlinLat, berlinLng)
	fresh := seedUser(t, gdb, 2, 28, berlinLat, berlinLng)
	stale := seedUser(t, gdb, 3, 27, berlinLat, berlinLng)

	for _, exchange := range []struct {
		other *db.User
		at    time.Time
	}{
		{fresh, now.Add(-2 * time.Hour)},
		{stale, now.Add(-300 * time.Hour)},
	} {
		require.NoError(t, gdb.Create(&db.Reaction{
			ReactorID: viewer.ID, UserID: exchange.other.ID, Type: db.ReactionLike,
			CreatedAt: exchange.at, UpdatedAt: exchange.at,
		}).Error)
		require.NoError(t, gdb.Create(&db.Reaction{
			ReactorID: exchange.other.ID, UserID: viewer.ID, Type: db.ReactionLike,
			CreatedAt: exchange.at, UpdatedAt: exchange.at,
		}).Error)
	}

	dtos, err := svc.TopProfiles(context.Background(), viewer.ID)
	require.NoError(t, err)

	ids := make([]uint64, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.ID)
	}
	assert.Equal(t, []uint64{stale.ID}, ids)
}

func TestTopProfilesBlockerVisibilityByEntitlement(t *testing.T) {
	svc, gdb := setupService(t)

	viewer := seedUser(t, gdb, 1, 30, berlinLat, berlinLng)
	blocker := seedUser(t, gdb, 2, 28, berlinLat, berlinLng)
	require.NoError(t, gdb.Create(&db.BlockedContact{UserID: blocker.ID, Phone: viewer.Phone}).Error)

	dtos, err := svc.TopProfiles(context.Background(), viewer.ID)
	require.NoError(t, err)
	assert.Empty(t, dtos)

	until := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, gdb.Model(&db.User{}).Where("id = ?", viewer.ID).
		Updates(map[string]any{"premium_tier": 1, "premium_until": until}).Error)

	dtos, err = svc.TopProfiles(context.Background(), viewer.ID)
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, blocker.ID, dtos[0].ID)
}

func TestTopProfilesUnknownViewer(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.TopProfiles(context.Background(), 404)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
