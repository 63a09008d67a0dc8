package spatial

import (
	"fmt"
	"math"
)

// Point represents a 2D point with latitude and longitude
type Point struct {
	Lat float64
	Lon float64
}

// Key formats the point as "lat,lon" with six decimals (~0.1 m)
func (p Point) Key() string {
	return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lon)
}

// PlanarDistance is the Euclidean distance treating Lat/Lon as meter offsets.
// Only meaningful for local test grids, never for real coordinates.
func PlanarDistance(a, b Point) float64 {
	return math.Hypot(a.Lat-b.Lat, a.Lon-b.Lon)
}

// PlanarMidpoint is the coordinate-wise midpoint, paired with PlanarDistance
func PlanarMidpoint(a, b Point) Point {
	return Point{Lat: (a.Lat + b.Lat) / 2, Lon: (a.Lon + b.Lon) / 2}
}
