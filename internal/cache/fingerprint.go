package cache

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Fingerprint summarizes every filter dimension that affects a viewer's
// candidate set. Two requests with the same fingerprint share one cached
// feed; any field change yields a distinct key, so filter-shape changes
// can never collide into a stale list.
type Fingerprint struct {
	ViewerID   uint64
	AgeMin     int
	AgeMax     int
	RadiusKm   float64 // ignored when Global
	Global     bool
	Genders    []string // sorted copy, see NewFingerprint
	InterestID uint64   // 0 = no interest filter
}

// NewFingerprint builds a fingerprint with a deterministic gender order.
func NewFingerprint(viewerID uint64, ageMin, ageMax int, radiusKm float64, global bool, genders []string, interestID uint64) Fingerprint {
	sorted := make([]string, len(genders))
	copy(sorted, genders)
	sort.Strings(sorted)
	return Fingerprint{
		ViewerID:   viewerID,
		AgeMin:     ageMin,
		AgeMax:     ageMax,
		RadiusKm:   radiusKm,
		Global:     global,
		Genders:    sorted,
		InterestID: interestID,
	}
}

// Key returns the Redis key for this fingerprint. The viewer id stays in
// clear for operability (SCAN by prefix, targeted invalidation); the
// filter dimensions are hashed.
func (f Fingerprint) Key() string {
	radius := "global"
	if !f.Global {
		radius = strconv.FormatFloat(f.RadiusKm, 'f', 1, 64)
	}
	canonical := fmt.Sprintf("a%d-%d|r%s|g%s|i%d",
		f.AgeMin, f.AgeMax, radius, strings.Join(f.Genders, ","), f.InterestID)
	sum := sha1.Sum([]byte(canonical))
	return fmt.Sprintf("discover:feed:%d:%x", f.ViewerID, sum[:8])
}
