package geo

import (
	"math"

	"gorm.io/gorm"
)

const (
	earthRadiusKm = 6371

	// kmPerDegree is the latitude span of one degree, used for the
	// rectangular prefilter.
	kmPerDegree = 111.12
)

// Filter bounds candidates to a radius around a center point in two
// stages: a cheap bounding-box range predicate that an index can serve,
// then the exact great-circle cutoff. The box alone over-matches near
// its corners, so Within is always the authoritative check.
type Filter struct {
	Lat      float64
	Lng      float64
	RadiusKm float64
}

// New builds a Filter centered on (lat, lng) with the given radius.
func New(lat, lng, radiusKm float64) Filter {
	return Filter{Lat: lat, Lng: lng, RadiusKm: radiusKm}
}

// Bounds returns the bounding-box corners as (minLat, maxLat, minLng, maxLng).
func (f Filter) Bounds() (float64, float64, float64, float64) {
	latDelta := f.RadiusKm / kmPerDegree
	lngDelta := f.RadiusKm / (kmPerDegree * math.Cos(f.Lat*math.Pi/180))
	return f.Lat - latDelta, f.Lat + latDelta, f.Lng - lngDelta, f.Lng + lngDelta
}

// Scope restricts a users query to the bounding box. Prefilter only;
// callers must still apply Within to the surviving rows.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	minLat, maxLat, minLng, maxLng := f.Bounds()
	return func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where("users.latitude BETWEEN ? AND ?", minLat, maxLat).
			Where("users.longitude BETWEEN ? AND ?", minLng, maxLng)
	}
}

// Within reports whether the point lies inside the exact radius.
func (f Filter) Within(lat, lng float64) bool {
	return f.DistanceKm(lat, lng) <= f.RadiusKm
}

// DistanceKm returns the great-circle distance from the center to the
// given point.
func (f Filter) DistanceKm(lat, lng float64) float64 {
	return Haversine(f.Lat, f.Lng, lat, lng)
}

// Haversine computes the great-circle distance between two points in km.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
