package discover

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/heartlinkapp/discovery/internal/app"
	"github.com/heartlinkapp/discovery/internal/cache"
	"github.com/heartlinkapp/discovery/internal/db"
	apperrors "github.com/heartlinkapp/discovery/internal/errors"
	"github.com/heartlinkapp/discovery/internal/geo"
	"github.com/heartlinkapp/discovery/internal/metrics"
	"github.com/heartlinkapp/discovery/internal/repository"
)

// PageRequest is one feed page request. AgeRange optionally overrides
// the stored search settings ("25-35"); InterestID adds the gated
// interest narrowing.
type PageRequest struct {
	PageSize   int
	AgeRange   string
	InterestID *uint64
}

// Service is the discovery feed engine: it composes the candidate scan,
// the per-fingerprint feed cache and profile hydration.
type Service struct {
	appCtx     *app.AppContext
	candidates *repository.CandidateRepository
	profiles   *repository.ProfileRepository
	gate       *AccessGate
	enricher   *Enricher
	now        func() time.Time
}

// NewService creates the discovery service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	profiles := repository.NewProfileRepository(appCtx.DB)
	return &Service{
		appCtx:     appCtx,
		candidates: repository.NewCandidateRepository(appCtx.DB),
		profiles:   profiles,
		gate:       NewAccessGate(profiles, appCtx.Config.Discovery.GateTierBaseline),
		enricher:   NewEnricher(profiles, appCtx.Config.Discovery.PhotoCap),
		now:        time.Now,
	}
}

// NextPage returns the next page of candidates for the viewer.
//
// Warm path: pop pageSize IDs off the cached feed for the filter
// fingerprint in one atomic server-side operation. Cold or exhausted
// path: run a bounded candidate scan, serve the first pageSize IDs and
// store the remainder under the fingerprint with the feed TTL. An empty
// fresh pool is a normal "no more candidates" outcome. A cache-store
// outage degrades to direct query execution; a DB failure is reported as
// a retryable error, never disguised as an empty feed.
func (s *Service) NextPage(ctx context.Context, viewerID uint64, req PageRequest) ([]ProfileDTO, error) {
	cfg := s.appCtx.Config.Discovery

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = cfg.DefaultPageSize
	}
	if pageSize > cfg.MaxPageSize {
		pageSize = cfg.MaxPageSize
	}

	viewer, err := s.profiles.GetViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	filters, fp, err := s.buildFilters(ctx, viewer, req)
	if err != nil {
		return nil, err
	}
	key := fp.Key()

	// no declared gender preferences means an empty candidate universe,
	// not an unfiltered one; bad filter input still errors above
	if len(filters.Genders) == 0 {
		return []ProfileDTO{}, nil
	}

	page, cacheErr := s.appCtx.Feed.PopPage(ctx, key, pageSize)
	if cacheErr != nil {
		// cache store down: bypass it rather than failing the request
		metrics.RecordCacheDegraded()
		s.appCtx.Logger.Warn("feed cache unavailable, serving direct",
			"viewer", viewerID, "err", cacheErr)

		pool, err := s.scanPool(ctx, viewer, filters)
		if err != nil {
			return nil, err
		}
		if len(pool) > pageSize {
			pool = pool[:pageSize]
		}
		return s.enricher.Hydrate(ctx, pool, viewer)
	}

	if len(page) > 0 {
		metrics.RecordCacheHit()
	} else {
		metrics.RecordCacheMiss()
	}

	if len(page) < pageSize {
		pool, err := s.scanPool(ctx, viewer, filters)
		if err != nil {
			return nil, err
		}
		metrics.RecordRefill()

		// top up the short page, keeping it free of IDs just served
		seen := make(map[uint64]struct{}, len(page))
		for _, id := range page {
			seen[id] = struct{}{}
		}
		fresh := make([]uint64, 0, len(pool))
		for _, id := range pool {
			if _, ok := seen[id]; !ok {
				fresh = append(fresh, id)
			}
		}

		need := pageSize - len(page)
		if need > len(fresh) {
			need = len(fresh)
		}
		page = append(page, fresh[:need]...)

		if err := s.appCtx.Feed.StoreFeed(ctx, key, fresh[need:], cfg.FeedTTL); err != nil {
			metrics.RecordCacheDegraded()
			s.appCtx.Logger.Warn("feed cache store failed",
				"viewer", viewerID, "err", err)
		}

		s.appCtx.Logger.Debug("feed refilled",
			"viewer", viewerID, "pool", len(pool), "page", len(page))
	}

	return s.enricher.Hydrate(ctx, page, viewer)
}

// buildFilters resolves the effective filter dimensions for the viewer
// and their cache fingerprint.
func (s *Service) buildFilters(ctx context.Context, viewer *db.User, req PageRequest) (repository.CandidateFilters, cache.Fingerprint, error) {
	cfg := s.appCtx.Config.Discovery

	settings := viewer.Settings
	if settings == nil {
		settings = &db.SearchSettings{RadiusKm: 100, AgeMin: 18, AgeMax: 99}
	}

	ageMin, ageMax := settings.AgeMin, settings.AgeMax
	if req.AgeRange != "" {
		var err error
		ageMin, ageMax, err = ParseAgeRange(req.AgeRange)
		if err != nil {
			return repository.CandidateFilters{}, cache.Fingerprint{}, err
		}
	}

	genders := make([]string, 0, len(viewer.Preferences))
	for _, p := range viewer.Preferences {
		genders = append(genders, p.Gender)
	}

	filters := repository.CandidateFilters{
		AgeMin:        ageMin,
		AgeMax:        ageMax,
		Genders:       genders,
		CooldownSince: s.now().Add(-cfg.CooldownWindow),
	}

	if !settings.GlobalSearch {
		if !viewer.HasLocation() {
			return repository.CandidateFilters{}, cache.Fingerprint{},
				fmt.Errorf("viewer %d has no location for radius search: %w",
					viewer.ID, apperrors.ErrLocationRequired)
		}
		g := geo.New(*viewer.Latitude, *viewer.Longitude, settings.RadiusKm)
		filters.Geo = &g
	}

	var interestID uint64
	if req.InterestID != nil {
		ok, err := s.gate.CanUseInterestFilter(ctx, viewer, *req.InterestID)
		if err != nil {
			return repository.CandidateFilters{}, cache.Fingerprint{}, err
		}
		if !ok {
			metrics.RecordPremiumDenied()
			return repository.CandidateFilters{}, cache.Fingerprint{},
				fmt.Errorf("interest filter %d: %w", *req.InterestID, apperrors.ErrPremiumRequired)
		}
		interestID = *req.InterestID
		filters.InterestID = req.InterestID
	}

	fp := cache.NewFingerprint(
		viewer.ID, ageMin, ageMax,
		settings.RadiusKm, settings.GlobalSearch,
		genders, interestID,
	)
	return filters, fp, nil
}

// scanPool runs one bounded candidate scan. Timeouts and cancellation
// surface as errors, so a half-completed scan can never reach the cache.
func (s *Service) scanPool(ctx context.Context, viewer *db.User, filters repository.CandidateFilters) ([]uint64, error) {
	scanCtx, cancel := context.WithTimeout(ctx, s.appCtx.Config.Discovery.ScanTimeout)
	defer cancel()

	start := time.Now()
	pool, err := s.candidates.FindCandidates(scanCtx, viewer, filters, s.appCtx.Config.Discovery.ScanCap)
	if err != nil {
		return nil, errors.Join(apperrors.ErrUnavailable, fmt.Errorf("candidate scan: %w", err))
	}
	metrics.RecordScan(time.Since(start), len(pool))
	return pool, nil
}

// ParseAgeRange parses a "min-max" age range string.
func ParseAgeRange(s string) (int, int, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("age range %q: %w", s, apperrors.ErrInvalidFilterRange)
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || lo < 0 || lo > hi {
		return 0, 0, fmt.Errorf("age range %q: %w", s, apperrors.ErrInvalidFilterRange)
	}
	return lo, hi, nil
}
