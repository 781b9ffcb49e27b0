package discover

import (
	"context"
	"time"

	"github.com/heartlinkapp/discovery/internal/db"
	"github.com/heartlinkapp/discovery/internal/repository"
)

// AccessGate decides whether a viewer may narrow the feed by an
// interest. Allowed when the viewer declared the interest themselves, or
// when their entitlement tier is strictly above the configured baseline.
// Holding an entitlement at the baseline tier is not enough.
type AccessGate struct {
	profiles     *repository.ProfileRepository
	baselineTier int
	now          func() time.Time
}

// NewAccessGate creates a gate with the given tier baseline.
func NewAccessGate(profiles *repository.ProfileRepository, baselineTier int) *AccessGate {
	return &AccessGate{
		profiles:     profiles,
		baselineTier: baselineTier,
		now:          time.Now,
	}
}

// CanUseInterestFilter reports whether the interest-narrowing clause may
// be added for this viewer. A false result must surface as a premium
// error, never as a silently dropped filter.
func (g *AccessGate) CanUseInterestFilter(ctx context.Context, viewer *db.User, interestID uint64) (bool, error) {
	declared, err := g.profiles.HasDeclaredInterest(ctx, viewer.ID, interestID)
	if err != nil {
		return false, err
	}
	if declared {
		return true, nil
	}
	return viewer.Entitled(g.now()) && viewer.PremiumTier > g.baselineTier, nil
}
