package layout

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/etell/placement-backend/internal/models"
)

// Initial grid placement on the canvas
const (
	defaultRoomWidth  = 80.0
	defaultRoomHeight = 60.0
	gridOrigin        = 20.0
	gridColumns       = 4
	gridSpacingX      = 90.0 // leaves a gap of AdjacencyMargin between columns
	gridSpacingY      = 70.0
)

// StoreyHeight is the assumed floor-to-floor height in meters
const StoreyHeight = 3.0

// InferRoomType guesses a room type from the sample name
func InferRoomType(name string) models.RoomType {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "stair"):
		return models.RoomTypeStaircase
	case strings.Contains(n, "hall"), strings.Contains(n, "corridor"), strings.Contains(n, "entrance"):
		return models.RoomTypeHallway
	default:
		return models.RoomTypeRoom
	}
}

// FloorForHeight maps a relative height to a floor number, ground floor being 1
func FloorForHeight(relativeHeight float64) int {
	floor := 1 + int(math.Floor(relativeHeight/StoreyHeight))
	if floor < 1 {
		return 1
	}
	return floor
}

// RoomsFromSamples creates one room per sample, laid out on a grid per floor
func RoomsFromSamples(samples []models.Sample) []models.Room {
	perFloor := make(map[int]int)
	rooms := make([]models.Room, 0, len(samples))

	for _, s := range samples {
		floor := s.Floor
		if floor < 1 {
			floor = FloorForHeight(s.RelativeHeight)
		}

		n := perFloor[floor]
		perFloor[floor] = n + 1

		room := models.Room{
			ID:             uuid.NewString(),
			SampleID:       s.ID,
			Name:           s.Name,
			Floor:          floor,
			SignalStrength: s.SignalStrength,
			Type:           InferRoomType(s.Name),
		}
		room.MoveTo(gridOrigin+float64(n%gridColumns)*gridSpacingX, gridOrigin+float64(n/gridColumns)*gridSpacingY)
		room.Resize(defaultRoomWidth, defaultRoomHeight)
		rooms = append(rooms, room)
	}
	return rooms
}
