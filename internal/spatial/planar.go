package spatial

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// CanvasDistance is the Euclidean distance between two canvas points
func CanvasDistance(a, b orb.Point) float64 {
	return planar.Distance(a, b)
}

// CanvasMidpoint returns the point halfway between a and b
func CanvasMidpoint(a, b orb.Point) orb.Point {
	return orb.Point{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2}
}

// BoundsTouch reports whether a, expanded by margin on every side, intersects b.
// Edges count as intersecting, so the test is symmetric in a and b.
func BoundsTouch(a, b orb.Bound, margin float64) bool {
	return a.Pad(margin).Intersects(b)
}
