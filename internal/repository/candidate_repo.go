package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/heartlinkapp/discovery/internal/db"
	"github.com/heartlinkapp/discovery/internal/geo"
)

// CandidateFilters carries every dimension that shapes a candidate scan.
// Geo is nil when the viewer searches globally.
type CandidateFilters struct {
	AgeMin        int
	AgeMax        int
	Genders       []string
	Geo           *geo.Filter
	InterestID    *uint64
	CooldownSince time.Time
}

// CandidateRepository runs the bounded candidate scan for the discovery
// feed. It returns identifiers only; hydration is a separate step.
type CandidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new repository bound to the given DB connection.
func NewCandidateRepository(database *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: database}
}

type candidateRow struct {
	ID        uint64
	Latitude  *float64
	Longitude *float64
}

// FindCandidates returns up to scanCap candidate IDs eligible for the
// viewer, ordered online-first, then most recently active, then by id so
// pagination stays deterministic across cache refills.
//
// Predicates run cheapest first: completeness flags, location presence,
// the bounding-box range scan, demographics, then the three
// negative-existence exclusions and the optional interest narrowing. The
// box is only a prefilter; rows are held to the exact great-circle
// cutoff afterwards, so a corner row inside the box but outside the
// radius never leaks through. scanCap is the refill pool bound, not a
// page size.
func (r *CandidateRepository) FindCandidates(
	ctx context.Context,
	viewer *db.User,
	filters CandidateFilters,
	scanCap int,
) ([]uint64, error) {
	query := r.db.WithContext(ctx).
		Table("users").
		Select("users.id, users.latitude, users.longitude").
		Where("users.id <> ?", viewer.ID).
		Where("users.registration_done = ?", true).
		Where("users.active = ?", true).
		Where("users.latitude IS NOT NULL AND users.longitude IS NOT NULL")

	if filters.Geo != nil {
		query = query.Scopes(filters.Geo.Scope())
	}

	query = query.Where("users.age BETWEEN ? AND ?", filters.AgeMin, filters.AgeMax)

	if len(filters.Genders) > 0 {
		query = query.Where("users.gender IN ?", filters.Genders)
	}

	query = query.Scopes(
		ExcludeMatched(),
		ExcludeRecentlyReacted(viewer.ID, filters.CooldownSince),
		ExcludeBlocked(viewer.ID, viewer.Phone),
	)

	if filters.InterestID != nil {
		query = query.Where(`
			EXISTS (
				SELECT 1 FROM user_interests ui
				WHERE ui.user_id = users.id
				  AND ui.interest_id = ?
			)`, *filters.InterestID)
	}

	var rows []candidateRow
	err := query.
		Order("users.online DESC, users.last_active_at DESC, users.id ASC").
		Limit(scanCap).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(rows))
	for _, row := range rows {
		if filters.Geo != nil {
			if row.Latitude == nil || row.Longitude == nil {
				continue
			}
			if !filters.Geo.Within(*row.Latitude, *row.Longitude) {
				continue
			}
		}
		ids = append(ids, row.ID)
	}
	return ids, nil
}
