// Package analysis holds the scoring primitives shared by the placement and
// layout analyzers. Each analyzer supplies its own distance function so that
// geographic and canvas coordinates are never mixed.
package analysis

import (
	"github.com/etell/placement-backend/internal/stats"
)

// DistanceFunc measures the distance between two points of one coordinate system
type DistanceFunc[P any] func(a, b P) float64

// DistancesFrom returns the distances from points[i] to every other point.
// The point itself is excluded.
func DistancesFrom[P any](i int, points []P, dist DistanceFunc[P]) []float64 {
	if len(points) < 2 {
		return nil
	}
	out := make([]float64, 0, len(points)-1)
	for j, p := range points {
		if j == i {
			continue
		}
		out = append(out, dist(points[i], p))
	}
	return out
}

// RelativeCentrality is 1 - mean/max of the given distances.
// A point with no spread (max == 0, or no other points) is maximally central.
func RelativeCentrality(distances []float64) float64 {
	maxDist := stats.Max(distances)
	if maxDist == 0 {
		return 1
	}
	return 1 - stats.Mean(distances)/maxDist
}

// RangeCentrality is max(0, 1 - mean/normRange)
func RangeCentrality(distances []float64, normRange float64) float64 {
	c := 1 - stats.Mean(distances)/normRange
	if c < 0 {
		return 0
	}
	return c
}

// ArgMaxFirst returns the index of the first maximum score scanning in order,
// or -1 for an empty slice.
func ArgMaxFirst(scores []float64) int {
	best := -1
	for i, s := range scores {
		if best == -1 || s > scores[best] {
			best = i
		}
	}
	return best
}

// Clamp01 limits v to [0, 1]
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SignalLevel returns a display label for a signal strength
func SignalLevel(strength float64) string {
	switch {
	case strength >= 0.8:
		return "excellent"
	case strength >= 0.6:
		return "good"
	case strength >= 0.4:
		return "fair"
	default:
		return "poor"
	}
}

// Coverage thresholds shared by both analyzers
const (
	StrongSignalThreshold = 0.7
)

// CoveragePercentage returns 100 * wellCovered / total, or 0 when total is 0
func CoveragePercentage(wellCovered, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(wellCovered) / float64(total) * 100
}
