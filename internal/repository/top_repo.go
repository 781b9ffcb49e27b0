package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/db"
)

// TopProfileRow is one entry of the popularity-ranked featured list.
type TopProfileRow struct {
	ID           uint64
	Name         string
	Age          int
	Latitude     *float64
	Longitude    *float64
	PremiumTier  int
	PremiumUntil *time.Time
	ShowAge      *bool
	ShowDistance *bool
	Image        string
	LikeCount    int64
}

// TopRepository ranks users by global popularity for the featured list.
type TopRepository struct {
	db *gorm.DB
}

// NewTopRepository creates a new repository bound to the given DB connection.
func NewTopRepository(database *gorm.DB) *TopRepository {
	return &TopRepository{db: database}
}

// TopProfiles returns the most-liked users, ranked by cumulative
// non-dislike received reactions, descending. Uncached and unpaginated.
//
// Exclusion rules differ from the feed on purpose:
//   - only recent mutual exchanges with the viewer are excluded, not
//     all-time match state (exchangedSince bounds the window);
//   - blocking is a monetization lever: viewers without an active
//     entitlement do not see users who blocked them, entitled viewers
//     see the full ranked list, and the viewer's own block list never
//     narrows it. Keep the asymmetry; it is not an oversight.
func (r *TopRepository) TopProfiles(
	ctx context.Context,
	viewer *db.User,
	viewerEntitled bool,
	exchangedSince time.Time,
	limit int,
) ([]TopProfileRow, error) {
	query := r.db.WithContext(ctx).
		Table("users").
		Select(`users.id, users.name, users.age, users.latitude, users.longitude,
			users.premium_tier, users.premium_until,
			ss.show_age, ss.show_distance,
			(SELECT p.url FROM photos p
			 WHERE p.user_id = users.id AND p.is_main = TRUE
			 ORDER BY p.position ASC LIMIT 1) AS image,
			(SELECT COUNT(*) FROM reactions lc
			 WHERE lc.user_id = users.id AND lc.type <> ?) AS like_count`,
			db.ReactionDislike).
		Joins("LEFT JOIN search_settings ss ON ss.user_id = users.id").
		Where("users.id <> ?", viewer.ID).
		Where("users.registration_done = ?", true).
		Where("users.active = ?", true).
		Where("users.latitude IS NOT NULL AND users.longitude IS NOT NULL").
		Scopes(ExcludeRecentExchange(viewer.ID, exchangedSince))

	if !viewerEntitled {
		query = query.Scopes(ExcludeBlockers(viewer.Phone))
	}

	var rows []TopProfileRow
	err := query.
		Order("like_count DESC, users.id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
