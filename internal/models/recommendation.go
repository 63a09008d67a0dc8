package models

// ExtenderType classifies an extender recommendation
type ExtenderType string

// ExtenderType constants
const (
	ExtenderTypeRoom    ExtenderType = "roomExtender"
	ExtenderTypeHallway ExtenderType = "hallwayExtender"
)

// ExtenderRecommendation suggests a range extender for a weak calibration point
type ExtenderRecommendation struct {
	LocationName   string       `json:"locationName"` // Nearest well-covered sample to extend from
	WeakSpotName   string       `json:"weakSpotName"`
	Floor          int          `json:"floor"`
	Reason         string       `json:"reason"`
	Type           ExtenderType `json:"type"`
	DistanceMeters float64      `json:"distanceMeters"`

	// Suggested position, halfway between the weak spot and LocationName
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CoverageAnalysis summarizes how many points are well or weakly covered
type CoverageAnalysis struct {
	TotalPoints        int     `json:"totalPoints"`
	WellCovered        int     `json:"wellCovered"`
	WeakCoverage       int     `json:"weakCoverage"`
	CoveragePercentage float64 `json:"coveragePercentage"`
}

// RouterLocation is the sample chosen as the best router position
type RouterLocation struct {
	Sample Sample  `json:"sample"`
	Score  float64 `json:"score"`
}

// PlacementResult is the output of a placement analysis over one session
type PlacementResult struct {
	OptimalRouterLocation   RouterLocation           `json:"optimalRouterLocation"`
	ExtenderRecommendations []ExtenderRecommendation `json:"extenderRecommendations"`
	Coverage                CoverageAnalysis         `json:"coverage"`
	SignalPrediction        map[string]float64       `json:"signalPrediction"` // "lat,lon" -> predicted strength
}

// RouterRecommendation is the best room for a router on one floor
type RouterRecommendation struct {
	Floor      int     `json:"floor"`
	Room       Room    `json:"room"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// LayoutExtenderRecommendation places an extender between a weak room and a stronger neighbour
type LayoutExtenderRecommendation struct {
	Floor                int     `json:"floor"`
	WeakRoomID           string  `json:"weakRoomId"`
	WeakRoomName         string  `json:"weakRoomName"`
	NeighborRoomID       string  `json:"neighborRoomId"`
	NeighborRoomName     string  `json:"neighborRoomName"`
	X                    float64 `json:"x"`
	Y                    float64 `json:"y"`
	CurrentSignal        float64 `json:"currentSignal"`
	EstimatedImprovement float64 `json:"estimatedImprovement"`
	Reason               string  `json:"reason"`
}

// LayoutResult is the output of a layout analysis across floors
type LayoutResult struct {
	RouterRecommendations   []RouterRecommendation         `json:"routerRecommendations"`
	ExtenderRecommendations []LayoutExtenderRecommendation `json:"extenderRecommendations"`
	Coverage                CoverageAnalysis               `json:"coverage"`
}
