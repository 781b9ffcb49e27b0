package discover

import (
	"context"
	"time"

	"github.com/heartlinkapp/discovery/internal/db"
	"github.com/heartlinkapp/discovery/internal/geo"
	"github.com/heartlinkapp/discovery/internal/repository"
)

// Enricher hydrates a page of candidate IDs into display DTOs.
type Enricher struct {
	profiles *repository.ProfileRepository
	photoCap int
	now      func() time.Time
}

// NewEnricher creates an enricher capping photo lists at photoCap.
func NewEnricher(profiles *repository.ProfileRepository, photoCap int) *Enricher {
	return &Enricher{
		profiles: profiles,
		photoCap: photoCap,
		now:      time.Now,
	}
}

// Hydrate loads profiles for the given IDs and builds DTOs in the input
// order. Visibility is evaluated per candidate: an entitled candidate who
// turned off the age or distance toggle has that field withheld from
// everyone. Distance, when shown, is the exact great-circle value.
func (e *Enricher) Hydrate(ctx context.Context, ids []uint64, viewer *db.User) ([]ProfileDTO, error) {
	dtos := make([]ProfileDTO, 0, len(ids))
	if len(ids) == 0 {
		return dtos, nil
	}

	users, err := e.profiles.GetProfiles(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint64]*db.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	now := e.now()
	for _, id := range ids {
		candidate, ok := byID[id]
		if !ok {
			// deactivated between scan and hydration; skip silently
			continue
		}
		dtos = append(dtos, e.buildDTO(candidate, viewer, now))
	}
	return dtos, nil
}

func (e *Enricher) buildDTO(candidate, viewer *db.User, now time.Time) ProfileDTO {
	dto := ProfileDTO{
		ID:         candidate.ID,
		Name:       candidate.Name,
		IsOnline:   candidate.Online,
		IsVerified: candidate.Verification == db.VerificationApproved,
		Photos:     make([]PhotoDTO, 0, e.photoCap),
	}

	if candidate.Bio != "" {
		bio := candidate.Bio
		dto.Bio = &bio
	}

	entitled := candidate.Entitled(now)
	settings := candidate.Settings

	if !(entitled && settings != nil && !settings.ShowAge) {
		age := candidate.Age
		dto.Age = &age
	}

	showDistance := !(entitled && settings != nil && !settings.ShowDistance)
	if showDistance && viewer.HasLocation() && candidate.HasLocation() {
		d := geo.Haversine(
			*viewer.Latitude, *viewer.Longitude,
			*candidate.Latitude, *candidate.Longitude,
		)
		dto.DistanceKm = &d
	}

	// photos come preloaded main-first
	for _, p := range candidate.Photos {
		if len(dto.Photos) >= e.photoCap {
			break
		}
		dto.Photos = append(dto.Photos, PhotoDTO{URL: p.URL, IsMain: p.IsMain})
	}

	return dto
}
