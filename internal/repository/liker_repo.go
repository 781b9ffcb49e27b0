package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/db"
	"github.com/heartlinkapp/discovery/internal/geo"
	"github.com/heartlinkapp/discovery/internal/utils/pagination"
)

// LikerQuery narrows the likes inbox. The zero value applies no
// narrowing beyond the base eligibility rules.
type LikerQuery struct {
	VerifiedOnly bool
	WithBioOnly  bool
	AgeMin       *int
	AgeMax       *int
	MinPhotos    int
	Genders      []string
	Geo          *geo.Filter
}

// LikerRow is one inbox entry: the liker's display fields plus the
// reaction that put them there.
type LikerRow struct {
	ID           uint64
	Name         string
	Age          int
	Online       bool
	Latitude     *float64
	Longitude    *float64
	Verification string
	PremiumTier  int
	PremiumUntil *time.Time
	ShowAge      *bool
	ShowDistance *bool
	Image        string
	ReactionType string
	ReactedAt    time.Time
}

// LikerRepository answers "who reacted positively to this viewer".
type LikerRepository struct {
	db *gorm.DB
}

// NewLikerRepository creates a new repository bound to the given DB connection.
func NewLikerRepository(database *gorm.DB) *LikerRepository {
	return &LikerRepository{db: database}
}

// GetLikers returns users who reacted positively to the viewer, with whom
// no match exists yet and whom the viewer has not disliked, most recent
// reaction first. Blocking is bidirectional. Supports cursor-based
// pagination via paginationToken.
//
// When q.Geo is set the bounding box narrows the scan and the exact
// great-circle cutoff is applied to the fetched rows afterwards, so a
// page can come back short of limit without being the last one.
func (r *LikerRepository) GetLikers(
	ctx context.Context,
	viewerID uint64,
	viewerPhone string,
	q LikerQuery,
	paginationToken *string,
	limit int,
) ([]LikerRow, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Table("reactions r").
		Select(`users.id, users.name, users.age, users.online,
			users.latitude, users.longitude, users.verification,
			users.premium_tier, users.premium_until,
			ss.show_age, ss.show_distance,
			(SELECT p.url FROM photos p
			 WHERE p.user_id = users.id AND p.is_main = TRUE
			 ORDER BY p.position ASC LIMIT 1) AS image,
			r.type AS reaction_type, r.updated_at AS reacted_at`).
		Joins("JOIN users ON users.id = r.reactor_id").
		Joins("LEFT JOIN search_settings ss ON ss.user_id = users.id").
		Where("r.user_id = ? AND r.type <> ?", viewerID, db.ReactionDislike).
		Where("users.active = ? AND users.registration_done = ?", true, true).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM reactions m
				WHERE m.reactor_id = ?
				  AND m.user_id = users.id
				  AND m.type <> ?
			)`, viewerID, db.ReactionDislike).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM reactions d2
				WHERE d2.reactor_id = ?
				  AND d2.user_id = users.id
				  AND d2.type = ?
			)`, viewerID, db.ReactionDislike).
		Scopes(ExcludeBlocked(viewerID, viewerPhone))

	if q.VerifiedOnly {
		query = query.Where("users.verification = ?", db.VerificationApproved)
	}
	if q.WithBioOnly {
		query = query.Where("users.bio <> ''")
	}
	if q.AgeMin != nil && q.AgeMax != nil {
		query = query.Where("users.age BETWEEN ? AND ?", *q.AgeMin, *q.AgeMax)
	}
	if q.MinPhotos > 0 {
		query = query.Where(`
			(SELECT COUNT(*) FROM photos p2 WHERE p2.user_id = users.id) >= ?`,
			q.MinPhotos)
	}
	if len(q.Genders) > 0 {
		query = query.Where("users.gender IN ?", q.Genders)
	}
	if q.Geo != nil {
		query = query.Scopes(q.Geo.Scope())
	}

	query = query.
		Order("r.updated_at DESC, r.reactor_id DESC").
		Limit(limit + 1)

	// apply cursor
	if cursor.LikerID > 0 && cursor.ReactedUnix > 0 {
		ts := time.UnixMilli(cursor.ReactedUnix)
		query = query.Where(
			"(r.updated_at < ? OR (r.updated_at = ? AND r.reactor_id < ?))",
			ts, ts, cursor.LikerID,
		)
	}

	var rows []LikerRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			LikerID:     last.ID,
			ReactedUnix: last.ReactedAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	// exact-distance postfilter; the box alone is never authoritative
	if q.Geo != nil {
		kept := rows[:0]
		for _, row := range rows {
			if row.Latitude == nil || row.Longitude == nil {
				continue
			}
			if !q.Geo.Within(*row.Latitude, *row.Longitude) {
				continue
			}
			kept = append(kept, row)
		}
		rows = kept
	}

	return rows, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
