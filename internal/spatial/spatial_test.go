package spatial

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	t.Parallel()

	// one degree of latitude
	assert.InDelta(t, 111195, HaversineDistance(0, 0, 1, 0), 1)
	assert.Equal(t, 0.0, HaversineDistance(51.5, -0.12, 51.5, -0.12))

	a := Point{Lat: 51.5007, Lon: -0.1246}
	b := Point{Lat: 51.5014, Lon: -0.1419}
	assert.InDelta(t, GreatCircleDistance(a, b), GreatCircleDistance(b, a), 1e-9)
}

func TestMidpoint(t *testing.T) {
	t.Parallel()

	mid := Midpoint(Point{Lat: 10, Lon: 20}, Point{Lat: 12, Lon: 20})
	assert.InDelta(t, 11, mid.Lat, 1e-9)
	assert.InDelta(t, 20, mid.Lon, 1e-9)

	assert.Equal(t, Point{Lat: 5, Lon: 15}, PlanarMidpoint(Point{Lat: 0, Lon: 10}, Point{Lat: 10, Lon: 20}))
	assert.Equal(t, 5.0, PlanarDistance(Point{}, Point{Lat: 3, Lon: 4}))
}

func TestPointKey(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "51.500700,-0.124600", Point{Lat: 51.5007, Lon: -0.1246}.Key())
}

func TestCanvasGeometry(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5.0, CanvasDistance(orb.Point{0, 0}, orb.Point{3, 4}))
	assert.Equal(t, orb.Point{2, 3}, CanvasMidpoint(orb.Point{0, 0}, orb.Point{4, 6}))
}

func TestBoundsTouch(t *testing.T) {
	t.Parallel()

	a := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{50, 50}}
	cases := []struct {
		name string
		b    orb.Bound
		want bool
	}{
		{"overlapping", orb.Bound{Min: orb.Point{40, 40}, Max: orb.Point{80, 80}}, true},
		{"within margin", orb.Bound{Min: orb.Point{60, 0}, Max: orb.Point{90, 50}}, true},
		{"beyond margin", orb.Bound{Min: orb.Point{61, 0}, Max: orb.Point{90, 50}}, false},
		{"diagonal corner", orb.Bound{Min: orb.Point{60, 60}, Max: orb.Point{90, 90}}, true},
		{"far away", orb.Bound{Min: orb.Point{500, 500}, Max: orb.Point{600, 600}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BoundsTouch(a, tc.b, 10))
			assert.Equal(t, tc.want, BoundsTouch(tc.b, a, 10), "not symmetric")
		})
	}
}
