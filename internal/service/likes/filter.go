package likes

import (
	"fmt"

	apperrors "github.com/heartlinkapp/discovery/internal/errors"
)

// FilterKind names the simple single-dimension inbox filters.
type FilterKind string

const (
	FilterNearby   FilterKind = "nearby"
	FilterVerified FilterKind = "verified"
	FilterWithBio  FilterKind = "with_bio"
)

// Filter is a tagged variant over the two mutually exclusive inbox
// filter modes. A request carries either a Named filter or Advanced,
// never a combination of both; the type makes mixing unrepresentable.
type Filter interface {
	isFilter()
}

// Named applies one fixed filter dimension.
type Named struct {
	Kind FilterKind
}

func (Named) isFilter() {}

// Advanced applies the viewer's stored like settings in full. Premium
// gated; supersedes any named filter rather than combining with it.
type Advanced struct{}

func (Advanced) isFilter() {}

// ParseFilter resolves the request parameters into the variant. The
// advanced flag wins over a named kind; an unknown kind is rejected.
func ParseFilter(named string, advanced bool) (Filter, error) {
	if advanced {
		return Advanced{}, nil
	}
	switch FilterKind(named) {
	case "":
		return nil, nil
	case FilterNearby, FilterVerified, FilterWithBio:
		return Named{Kind: FilterKind(named)}, nil
	default:
		return nil, fmt.Errorf("unknown likes filter %q: %w", named, apperrors.ErrInvalidFilterRange)
	}
}
