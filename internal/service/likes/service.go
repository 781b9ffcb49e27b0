package likes

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/heartlinkapp/discovery/internal/app"
	"github.com/heartlinkapp/discovery/internal/db"
	apperrors "github.com/heartlinkapp/discovery/internal/errors"
	"github.com/heartlinkapp/discovery/internal/geo"
	"github.com/heartlinkapp/discovery/internal/repository"
)

// LikerDTO is one inbox entry: a user who reacted positively to the
// viewer and is still unresolved.
type LikerDTO struct {
	ID           uint64   `json:"id"`
	Name         string   `json:"name"`
	Image        string   `json:"image"`
	Age          *int     `json:"age,omitempty"`
	DistanceKm   *float64 `json:"distance,omitempty"`
	SuperlikedMe bool     `json:"superliked_me"`
	IsOnline     bool     `json:"is_online"`
}

// Service resolves the "who liked me" inbox.
type Service struct {
	appCtx   *app.AppContext
	likers   *repository.LikerRepository
	profiles *repository.ProfileRepository
	validate *validator.Validate
	now      func() time.Time
}

// NewService creates the likes service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		likers:   repository.NewLikerRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
		validate: validator.New(),
		now:      time.Now,
	}
}

// GetLikes returns users who reacted positively to the viewer, with whom
// no match exists yet and whom the viewer has not disliked. filter is
// nil for the plain inbox, a Named kind, or Advanced for the
// LikeSettings-driven narrowing (premium gated). Supports cursor-based
// pagination via pageToken.
func (s *Service) GetLikes(
	ctx context.Context,
	viewerID uint64,
	filter Filter,
	pageToken *string,
	pageSize int,
) ([]LikerDTO, *string, error) {
	cfg := s.appCtx.Config.Discovery

	if pageSize <= 0 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}

	viewer, err := s.profiles.GetViewer(ctx, viewerID)
	if err != nil {
		return nil, nil, err
	}

	query, err := s.buildQuery(viewer, filter)
	if err != nil {
		return nil, nil, err
	}

	rows, nextToken, err := s.likers.GetLikers(ctx, viewer.ID, viewer.Phone, query, pageToken, pageSize)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	dtos := make([]LikerDTO, 0, len(rows))
	for _, row := range rows {
		dto := LikerDTO{
			ID:           row.ID,
			Name:         row.Name,
			Image:        row.Image,
			SuperlikedMe: row.ReactionType == db.ReactionSuperlike,
			IsOnline:     row.Online,
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
	return dtos, nextToken, nil
}

// buildQuery translates the filter variant into repository narrowing.
func (s *Service) buildQuery(viewer *db.User, filter Filter) (repository.LikerQuery, error) {
	switch f := filter.(type) {
	case nil:
		return repository.LikerQuery{}, nil

	case Named:
		return s.namedQuery(viewer, f.Kind)

	case Advanced:
		return s.advancedQuery(viewer)

	default:
		return repository.LikerQuery{}, fmt.Errorf("likes filter %T: %w", filter, apperrors.ErrInvalidFilterRange)
	}
}

func (s *Service) namedQuery(viewer *db.User, kind FilterKind) (repository.LikerQuery, error) {
	switch kind {
	case FilterNearby:
		if !viewer.HasLocation() {
			return repository.LikerQuery{}, fmt.Errorf("nearby filter without location: %w", apperrors.ErrLocationRequired)
		}
		g := geo.New(*viewer.Latitude, *viewer.Longitude, s.appCtx.Config.Discovery.NearbyThresholdKm)
		return repository.LikerQuery{Geo: &g}, nil

	case FilterVerified:
		return repository.LikerQuery{VerifiedOnly: true}, nil

	case FilterWithBio:
		return repository.LikerQuery{WithBioOnly: true}, nil

	default:
		return repository.LikerQuery{}, fmt.Errorf("unknown likes filter %q: %w", kind, apperrors.ErrInvalidFilterRange)
	}
}

func (s *Service) advancedQuery(viewer *db.User) (repository.LikerQuery, error) {
	if !viewer.Entitled(s.now()) {
		return repository.LikerQuery{}, fmt.Errorf("advanced likes filter: %w", apperrors.ErrPremiumRequired)
	}

	ls := viewer.LikeSettings
	if ls == nil {
		// entitled but never configured: nothing to narrow by
		return repository.LikerQuery{}, nil
	}

	if err := s.validate.Struct(ls); err != nil {
		return repository.LikerQuery{}, fmt.Errorf("like settings: %v: %w", err, apperrors.ErrInvalidFilterRange)
	}
	if ls.AgeMin != nil && ls.AgeMax != nil && *ls.AgeMin > *ls.AgeMax {
		return repository.LikerQuery{}, fmt.Errorf("like settings age range: %w", apperrors.ErrInvalidFilterRange)
	}

	query := repository.LikerQuery{
		VerifiedOnly: ls.VerifiedOnly,
		WithBioOnly:  ls.WithBioOnly,
		AgeMin:       ls.AgeMin,
		AgeMax:       ls.AgeMax,
		MinPhotos:    ls.MinPhotos,
	}

	for _, p := range ls.Preferences {
		query.Genders = append(query.Genders, p.Gender)
	}

	if ls.RadiusKm != nil {
		if !viewer.HasLocation() {
			return repository.LikerQuery{}, fmt.Errorf("radius filter without location: %w", apperrors.ErrLocationRequired)
		}
		g := geo.New(*viewer.Latitude, *viewer.Longitude, *ls.RadiusKm)
		query.Geo = &g
	}

	return query, nil
}
