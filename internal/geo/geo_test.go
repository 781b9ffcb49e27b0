package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Berlin / Potsdam / Hamburg reference points.
var (
	berlinLat, berlinLng   = 52.5200, 13.4050
	potsdamLat, potsdamLng = 52.3906, 13.0645
	hamburgLat, hamburgLng = 53.5511, 9.9937
)

func TestHaversineKnownDistances(t *testing.T) {
	// Berlin -> Potsdam is roughly 27 km.
	d := Haversine(berlinLat, berlinLng, potsdamLat, potsdamLng)
	assert.InDelta(t, 27, d, 3)

	// Berlin -> Hamburg is roughly 255 km.
	d = Haversine(berlinLat, berlinLng, hamburgLat, hamburgLng)
	assert.InDelta(t, 255, d, 10)

	// Zero distance to self.
	assert.InDelta(t, 0, Haversine(berlinLat, berlinLng, berlinLat, berlinLng), 0.001)
}

func TestWithinRespectsRadius(t *testing.T) {
	f := New(berlinLat, berlinLng, 30)

	assert.True(t, f.Within(potsdamLat, potsdamLng))
	assert.False(t, f.Within(hamburgLat, hamburgLng))
}

func TestBoundsContainRadius(t *testing.T) {
	f := New(berlinLat, berlinLng, 30)
	minLat, maxLat, minLng, maxLng := f.Bounds()

	// Potsdam is inside the 30km radius, so it must be inside the box.
	assert.GreaterOrEqual(t, potsdamLat, minLat)
	assert.LessOrEqual(t, potsdamLat, maxLat)
	assert.GreaterOrEqual(t, potsdamLng, minLng)
	assert.LessOrEqual(t, potsdamLng, maxLng)

	// Hamburg is well outside and the box must exclude it.
	outside := hamburgLat < minLat || hamburgLat > maxLat ||
		hamburgLng < minLng || hamburgLng > maxLng
	assert.True(t, outside)
}

// The box is wider than the circle near its corners: a corner point can
// pass the prefilter while failing the exact cutoff. This is the case
// that makes Within the authoritative check.
func TestBoxCornerOvermatch(t *testing.T) {
	f := New(berlinLat, berlinLng, 30)
	minLat, _, minLng, _ := f.Bounds()

	assert.False(t, f.Within(minLat, minLng))
}
