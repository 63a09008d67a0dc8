package models

import "github.com/paulmach/orb"

// RoomType classifies a layout room
type RoomType string

// RoomType constants
const (
	RoomTypeRoom      RoomType = "room"
	RoomTypeHallway   RoomType = "hallway"
	RoomTypeStaircase RoomType = "staircase"
)

// Canvas size limits for a room rectangle
const (
	MinRoomWidth  = 30.0
	MaxRoomWidth  = 120.0
	MinRoomHeight = 20.0
	MaxRoomHeight = 100.0
)

// Room is a rectangle on the floor-plan canvas, created from a sample
type Room struct {
	ID             string   `json:"id" db:"id"`
	SampleID       string   `json:"sampleId,omitempty" db:"sample_id"`
	Name           string   `json:"name" db:"name"`
	X              float64  `json:"x" db:"x"` // Top-left corner
	Y              float64  `json:"y" db:"y"`
	Width          float64  `json:"width" db:"width"`
	Height         float64  `json:"height" db:"height"`
	Floor          int      `json:"floor" db:"floor"`
	SignalStrength float64  `json:"signalStrength" db:"signal_strength"`
	Type           RoomType `json:"type" db:"room_type"`
}

// Bound returns the room's bounding rectangle in canvas coordinates
func (r Room) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{r.X, r.Y},
		Max: orb.Point{r.X + r.Width, r.Y + r.Height},
	}
}

// Center returns the center of the room rectangle
func (r Room) Center() orb.Point {
	return r.Bound().Center()
}

// MoveTo sets the top-left corner
func (r *Room) MoveTo(x, y float64) {
	r.X = x
	r.Y = y
}

// Resize sets the room size, clamped to the canvas limits
func (r *Room) Resize(width, height float64) {
	r.Width = clamp(width, MinRoomWidth, MaxRoomWidth)
	r.Height = clamp(height, MinRoomHeight, MaxRoomHeight)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// FloorLayout holds the rooms of one floor and their derived adjacency
type FloorLayout struct {
	Floor     int                 `json:"floor"`
	Rooms     []Room              `json:"rooms"`
	Adjacency map[string][]string `json:"adjacency"`
}

// Layout is a multi-floor plan built from a calibration session
type Layout struct {
	ID        string        `json:"id" db:"id"`
	SessionID string        `json:"sessionId,omitempty" db:"session_id"`
	Floors    []FloorLayout `json:"floors"`
	CreatedAt int64         `json:"createdAt" db:"created_at"`
	UpdatedAt int64         `json:"updatedAt" db:"updated_at"`
}

// RoomUpdate is a committed move/resize/floor change.
// Nil fields are left unchanged.
type RoomUpdate struct {
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Floor  *int     `json:"floor" binding:"omitempty,gte=1"`
}
