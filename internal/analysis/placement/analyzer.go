// Package placement recommends a router position and range extenders from the
// samples of one calibration session.
package placement

import (
	"errors"
	"fmt"
	"math"

	"github.com/etell/placement-backend/internal/analysis"
	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/spatial"
	"github.com/etell/placement-backend/internal/stats"
)

// MinSamples is the fewest samples a placement analysis accepts
const MinSamples = 3

// ErrInsufficientData is returned when a session has fewer than MinSamples samples
var ErrInsufficientData = errors.New("insufficient data: at least 3 samples are required")

// Thresholds and weights
const (
	weakSpotThreshold     = 0.4
	weakCoverageThreshold = 0.5
	extenderGapBase       = 0.8
	extenderGapRoom       = 0.4

	centralityWeight = 0.4
	heightWeight     = 0.3
	signalWeight     = 0.3

	preferredHeightOffset = 0.5
	heightFalloff         = 3.0

	nominalRangeMeters = 50.0
	minPredictedSignal = 0.1
)

// Geometry supplies the distance and midpoint functions for sample positions
type Geometry struct {
	Distance analysis.DistanceFunc[spatial.Point]
	Midpoint func(a, b spatial.Point) spatial.Point
}

// GreatCircle measures sample positions as latitude/longitude on the sphere
var GreatCircle = Geometry{
	Distance: spatial.GreatCircleDistance,
	Midpoint: spatial.Midpoint,
}

// Planar treats sample positions as local meter offsets
var Planar = Geometry{
	Distance: spatial.PlanarDistance,
	Midpoint: spatial.PlanarMidpoint,
}

// Analyzer computes placement recommendations.
// It never mutates its inputs and holds no state between calls.
type Analyzer struct {
	geo Geometry
}

// NewAnalyzer creates an analyzer using great-circle geometry
func NewAnalyzer() *Analyzer {
	return NewAnalyzerWithGeometry(GreatCircle)
}

// NewAnalyzerWithGeometry creates an analyzer over the given geometry
func NewAnalyzerWithGeometry(geo Geometry) *Analyzer {
	return &Analyzer{geo: geo}
}

// AnalyzeOptimalPlacement runs every placement analysis over samples
func (a *Analyzer) AnalyzeOptimalPlacement(samples []models.Sample) (*models.PlacementResult, error) {
	if len(samples) < MinSamples {
		return nil, fmt.Errorf("%w (got %d)", ErrInsufficientData, len(samples))
	}

	router := a.FindOptimalRouterLocation(samples)
	weak := FindWeakSpots(samples)

	return &models.PlacementResult{
		OptimalRouterLocation:   router,
		ExtenderRecommendations: a.GenerateExtenderRecommendations(weak, samples),
		Coverage:                AnalyzeCoverage(samples),
		SignalPrediction:        a.GenerateSignalPrediction(samples, router.Sample),
	}, nil
}

// FindOptimalRouterLocation returns the sample with the highest composite score.
// Ties go to the earliest sample. Callers must pass at least one sample.
func (a *Analyzer) FindOptimalRouterLocation(samples []models.Sample) models.RouterLocation {
	scores := make([]float64, len(samples))
	for i := range samples {
		scores[i] = a.Score(i, samples)
	}

	best := analysis.ArgMaxFirst(scores)
	if best < 0 {
		return models.RouterLocation{}
	}
	return models.RouterLocation{Sample: samples[best], Score: scores[best]}
}

// Score is the router score of samples[i]:
// 0.4*centrality + 0.3*heightScore + 0.3*signal
func (a *Analyzer) Score(i int, samples []models.Sample) float64 {
	return centralityWeight*a.Centrality(i, samples) +
		heightWeight*HeightScore(samples[i], samples) +
		signalWeight*samples[i].SignalStrength
}

// Centrality is 1 - mean/max distance from samples[i] to the other samples
func (a *Analyzer) Centrality(i int, samples []models.Sample) float64 {
	points := positions(samples)
	return analysis.RelativeCentrality(analysis.DistancesFrom(i, points, a.geo.Distance))
}

// HeightScore rewards being 0.5 m above the mean height, reaching 0 at 3 m away
func HeightScore(s models.Sample, samples []models.Sample) float64 {
	heights := make([]float64, len(samples))
	for i, o := range samples {
		heights[i] = o.RelativeHeight
	}
	target := stats.Mean(heights) + preferredHeightOffset
	return math.Max(0, 1-math.Abs(s.RelativeHeight-target)/heightFalloff)
}

// FindWeakSpots returns the samples with signal strength below 0.4
func FindWeakSpots(samples []models.Sample) []models.Sample {
	var weak []models.Sample
	for _, s := range samples {
		if s.SignalStrength < weakSpotThreshold {
			weak = append(weak, s)
		}
	}
	return weak
}

// GenerateExtenderRecommendations pairs each weak spot with its nearest strong
// sample (signal > 0.7). Weak spots without any strong sample get no recommendation.
func (a *Analyzer) GenerateExtenderRecommendations(weakSpots, samples []models.Sample) []models.ExtenderRecommendation {
	var strong []models.Sample
	for _, s := range samples {
		if s.SignalStrength > analysis.StrongSignalThreshold {
			strong = append(strong, s)
		}
	}

	recs := make([]models.ExtenderRecommendation, 0, len(weakSpots))
	if len(strong) == 0 {
		return recs
	}

	for _, weak := range weakSpots {
		wp := position(weak)
		nearest, nearestDist := -1, 0.0
		for i, s := range strong {
			d := a.geo.Distance(wp, position(s))
			if nearest == -1 || d < nearestDist {
				nearest, nearestDist = i, d
			}
		}
		anchor := strong[nearest]

		extType := models.ExtenderTypeHallway
		if extenderGapBase-weak.SignalStrength > extenderGapRoom {
			extType = models.ExtenderTypeRoom
		}

		mid := a.geo.Midpoint(wp, position(anchor))
		recs = append(recs, models.ExtenderRecommendation{
			LocationName:   anchor.Name,
			WeakSpotName:   weak.Name,
			Floor:          weak.Floor,
			Reason:         weakSpotReason(weak, anchor),
			Type:           extType,
			DistanceMeters: nearestDist,
			Latitude:       mid.Lat,
			Longitude:      mid.Lon,
		})
	}
	return recs
}

func weakSpotReason(weak, anchor models.Sample) string {
	return fmt.Sprintf("Weak signal at %s (%d%%, %s); extend coverage from %s",
		weak.Name, int(math.Round(weak.SignalStrength*100)), analysis.SignalLevel(weak.SignalStrength), anchor.Name)
}

// AnalyzeCoverage counts strong (>= 0.7) and weak (< 0.5) samples.
// The percentage is strong over all samples, middle band included.
func AnalyzeCoverage(samples []models.Sample) models.CoverageAnalysis {
	var strong, weak int
	for _, s := range samples {
		if s.SignalStrength >= analysis.StrongSignalThreshold {
			strong++
		}
		if s.SignalStrength < weakCoverageThreshold {
			weak++
		}
	}
	return models.CoverageAnalysis{
		TotalPoints:        len(samples),
		WellCovered:        strong,
		WeakCoverage:       weak,
		CoveragePercentage: analysis.CoveragePercentage(strong, len(samples)),
	}
}

// GenerateSignalPrediction predicts max(0.1, 1 - d/50) at every sample,
// d being the distance to the router in meters
func (a *Analyzer) GenerateSignalPrediction(samples []models.Sample, router models.Sample) map[string]float64 {
	rp := position(router)
	prediction := make(map[string]float64, len(samples))
	for _, s := range samples {
		p := position(s)
		prediction[p.Key()] = math.Max(minPredictedSignal, 1-a.geo.Distance(p, rp)/nominalRangeMeters)
	}
	return prediction
}

func position(s models.Sample) spatial.Point {
	return spatial.Point{Lat: s.Latitude, Lon: s.Longitude}
}

func positions(samples []models.Sample) []spatial.Point {
	out := make([]spatial.Point, len(samples))
	for i, s := range samples {
		out[i] = position(s)
	}
	return out
}
