package toplist

import (
	"context"
	"time"

	"github.com/heartlinkapp/discovery/internal/app"
	"github.com/heartlinkapp/discovery/internal/geo"
	"github.com/heartlinkapp/discovery/internal/repository"
)

// TopProfileDTO is one entry of the featured list.
type TopProfileDTO struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	Age        *int     `json:"age,omitempty"`
	Image      string   `json:"image"`
	DistanceKm *float64 `json:"distance,omitempty"`
	LikeCount  int64    `json:"like_count"`
}

// Service produces the popularity-ranked top profiles list. Unlike the
// feed it is uncached and unpaginated: a fresh ranking per request.
type Service struct {
	appCtx   *app.AppContext
	top      *repository.TopRepository
	profiles *repository.ProfileRepository
	now      func() time.Time
}

// NewService creates the top profiles service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		top:      repository.NewTopRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
		now:      time.Now,
	}
}

// TopProfiles returns the most-liked users for the viewer, ranked by
// received non-dislike reactions.
func (s *Service) TopProfiles(ctx context.Context, viewerID uint64) ([]TopProfileDTO, error) {
	cfg := s.appCtx.Config.Discovery

	viewer, err := s.profiles.GetViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows, err := s.top.TopProfiles(
		ctx,
		viewer,
		viewer.Entitled(now),
		now.Add(-cfg.TopRecencyWindow),
		cfg.TopLimit,
	)
	if err != nil {
		return nil, err
	}

	dtos := make([]TopProfileDTO, 0, len(rows))
	for _, row := range rows {
		dto := TopProfileDTO{
			ID:        row.ID,
			Name:      row.Name,
			Image:     row.Image,
			LikeCount: row.LikeCount,
		}

		entitled := row.PremiumTier > 0 && row.PremiumUntil != nil && row.PremiumUntil.After(now)

		if !(entitled && row.ShowAge != nil && !*row.ShowAge) {
			age := row.Age
			dto.Age = &age
		}

		showDistance := !(entitled && row.ShowDistance != nil && !*row.ShowDistance)
		if showDistance && viewer.HasLocation() && row.Latitude != nil && row.Longitude != nil {
			d := geo.Haversine(*viewer.Latitude, *viewer.Longitude, *row.Latitude, *row.Longitude)
			dto.DistanceKm = &d
		}

		dtos = append(dtos, dto)
	}
	return dtos, nil
}
