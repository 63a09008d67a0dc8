package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func absDistance(a, b float64) float64 { return math.Abs(a - b) }

func TestDistancesFrom(t *testing.T) {
	t.Parallel()

	points := []float64{0, 3, 10}
	assert.Equal(t, []float64{3, 10}, DistancesFrom(0, points, absDistance))
	assert.Equal(t, []float64{3, 7}, DistancesFrom(1, points, absDistance))
	assert.Nil(t, DistancesFrom(0, points[:1], absDistance))
}

func TestRelativeCentrality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, RelativeCentrality(nil))
	assert.Equal(t, 1.0, RelativeCentrality([]float64{0, 0, 0}))
	assert.InDelta(t, 1-3.75/8, RelativeCentrality([]float64{1, 2, 4, 8}), 1e-9)
}

func TestRangeCentrality(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1.0, RangeCentrality(nil, 200))
	assert.InDelta(t, 0.5, RangeCentrality([]float64{50, 150}, 200), 1e-9)
	assert.Equal(t, 0.0, RangeCentrality([]float64{500}, 200))
}

func TestArgMaxFirst(t *testing.T) {
	t.Parallel()

	assert.Equal(t, -1, ArgMaxFirst(nil))
	assert.Equal(t, 0, ArgMaxFirst([]float64{0.5}))
	assert.Equal(t, 1, ArgMaxFirst([]float64{0.1, 0.7, 0.7, 0.3}))
	assert.Equal(t, 2, ArgMaxFirst([]float64{-3, -2, -1}))
}

func TestSignalLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "excellent", SignalLevel(0.8))
	assert.Equal(t, "good", SignalLevel(0.79))
	assert.Equal(t, "fair", SignalLevel(0.4))
	assert.Equal(t, "poor", SignalLevel(0.39))
}

func TestCoveragePercentage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, CoveragePercentage(0, 0))
	assert.InDelta(t, 66.666, CoveragePercentage(2, 3), 0.001)
	assert.Equal(t, 100.0, CoveragePercentage(4, 4))
}

func TestClamp01(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Clamp01(-0.2))
	assert.Equal(t, 0.42, Clamp01(0.42))
	assert.Equal(t, 1.0, Clamp01(1.3))
}
