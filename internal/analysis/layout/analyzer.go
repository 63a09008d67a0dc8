// Package layout analyzes floor-plan layouts: room adjacency and per-floor
// router/extender recommendations over canvas coordinates.
package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/etell/placement-backend/internal/analysis"
	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/spatial"
)

const (
	centralityWeight = 0.4
	signalWeight     = 0.4
	roomTypeWeight   = 0.2
	roomTypeBonus    = 0.2

	// Canvas units over which centrality decays to zero
	centralityRange = 200.0

	weakRoomThreshold     = 0.5
	weakCoverageThreshold = 0.4
	extenderBoost         = 0.3
)

// Analyzer scores rooms on a canvas
type Analyzer struct {
	distance analysis.DistanceFunc[orb.Point]
}

// NewAnalyzer creates an analyzer over planar canvas distance
func NewAnalyzer() *Analyzer {
	return &Analyzer{distance: spatial.CanvasDistance}
}

// AnalyzeLayout runs router, extender and coverage analysis for every floor.
// Floors without rooms contribute no router recommendation.
func (a *Analyzer) AnalyzeLayout(floors []models.FloorLayout) models.LayoutResult {
	result := models.LayoutResult{
		RouterRecommendations:   []models.RouterRecommendation{},
		ExtenderRecommendations: []models.LayoutExtenderRecommendation{},
		Coverage:                AnalyzeCoverage(floors),
	}
	for _, floor := range floors {
		if rec := a.FindOptimalRouterPosition(floor); rec != nil {
			result.RouterRecommendations = append(result.RouterRecommendations, *rec)
		}
		result.ExtenderRecommendations = append(result.ExtenderRecommendations, a.FindOptimalExtenderPositions(floor)...)
	}
	return result
}

// FindOptimalRouterPosition returns the best room for a router, or nil for an empty floor.
// Ties go to the earliest room.
func (a *Analyzer) FindOptimalRouterPosition(floor models.FloorLayout) *models.RouterRecommendation {
	if len(floor.Rooms) == 0 {
		return nil
	}

	scores := make([]float64, len(floor.Rooms))
	for i := range floor.Rooms {
		scores[i] = a.Score(i, floor.Rooms)
	}
	best := analysis.ArgMaxFirst(scores)
	room := floor.Rooms[best]

	return &models.RouterRecommendation{
		Floor:      floor.Floor,
		Room:       room,
		Confidence: analysis.Clamp01(scores[best]),
		Reasoning:  routerReasoning(room, scores[best]),
	}
}

// Score is the router score of rooms[i]:
// 0.4*centrality + 0.4*signal + 0.2*(0.2 if a plain room)
func (a *Analyzer) Score(i int, rooms []models.Room) float64 {
	typeScore := 0.0
	if rooms[i].Type == models.RoomTypeRoom {
		typeScore = roomTypeBonus
	}
	return centralityWeight*a.Centrality(i, rooms) +
		signalWeight*rooms[i].SignalStrength +
		roomTypeWeight*typeScore
}

// Centrality is max(0, 1 - meanCenterDistance/200) over the other rooms
func (a *Analyzer) Centrality(i int, rooms []models.Room) float64 {
	centers := make([]orb.Point, len(rooms))
	for j, r := range rooms {
		centers[j] = r.Center()
	}
	return analysis.RangeCentrality(analysis.DistancesFrom(i, centers, a.distance), centralityRange)
}

func routerReasoning(room models.Room, score float64) string {
	var parts []string
	switch {
	case score > 0.8:
		parts = append(parts, "Excellent central location")
	case score > 0.6:
		parts = append(parts, "Good location")
	default:
		parts = append(parts, "Best available location")
	}
	if room.SignalStrength > 0.7 {
		parts = append(parts, "strong existing signal")
	}
	if room.Type == models.RoomTypeRoom {
		parts = append(parts, "enclosed room suits a router")
	}
	return fmt.Sprintf("%s in %s", strings.Join(parts, ", "), room.Name)
}

// FindOptimalExtenderPositions suggests an extender for every weak room (< 0.5)
// that has an adjacent room with strictly better signal. The strongest
// neighbour wins; rooms without one are skipped.
func (a *Analyzer) FindOptimalExtenderPositions(floor models.FloorLayout) []models.LayoutExtenderRecommendation {
	byID := make(map[string]models.Room, len(floor.Rooms))
	for _, r := range floor.Rooms {
		byID[r.ID] = r
	}

	recs := []models.LayoutExtenderRecommendation{}
	for _, weak := range floor.Rooms {
		if weak.SignalStrength >= weakRoomThreshold {
			continue
		}

		var best models.Room
		found := false
		for _, id := range floor.Adjacency[weak.ID] {
			n, ok := byID[id]
			if !ok || n.SignalStrength <= weak.SignalStrength {
				continue
			}
			if !found || n.SignalStrength > best.SignalStrength {
				best, found = n, true
			}
		}
		if !found {
			continue
		}

		pos := spatial.CanvasMidpoint(weak.Center(), best.Center())
		recs = append(recs, models.LayoutExtenderRecommendation{
			Floor:                floor.Floor,
			WeakRoomID:           weak.ID,
			WeakRoomName:         weak.Name,
			NeighborRoomID:       best.ID,
			NeighborRoomName:     best.Name,
			X:                    pos[0],
			Y:                    pos[1],
			CurrentSignal:        weak.SignalStrength,
			EstimatedImprovement: math.Min(1.0, weak.SignalStrength+extenderBoost),
			Reason: fmt.Sprintf("Place between %s (%d%%) and %s (%d%%)",
				weak.Name, percent(weak.SignalStrength), best.Name, percent(best.SignalStrength)),
		})
	}
	return recs
}

// AnalyzeCoverage counts strong (>= 0.7) and weak (< 0.4) rooms across all floors
func AnalyzeCoverage(floors []models.FloorLayout) models.CoverageAnalysis {
	var total, strong, weak int
	for _, f := range floors {
		for _, r := range f.Rooms {
			total++
			if r.SignalStrength >= analysis.StrongSignalThreshold {
				strong++
			}
			if r.SignalStrength < weakCoverageThreshold {
				weak++
			}
		}
	}
	return models.CoverageAnalysis{
		TotalPoints:        total,
		WellCovered:        strong,
		WeakCoverage:       weak,
		CoveragePercentage: analysis.CoveragePercentage(strong, total),
	}
}

func percent(s float64) int {
	return int(math.Round(s * 100))
}
