package models

// Sample is one calibration measurement taken during a session
type Sample struct {
	ID        string `json:"id" db:"id"`
	SessionID string `json:"sessionId" db:"session_id"`
	Name      string `json:"name" db:"name"`

	// Position
	Latitude       float64 `json:"latitude" db:"latitude"`
	Longitude      float64 `json:"longitude" db:"longitude"`
	Altitude       float64 `json:"altitude" db:"altitude"`               // Raw altitude in meters
	RelativeHeight float64 `json:"relativeHeight" db:"relative_height"` // Meters relative to the first sample
	Floor          int     `json:"floor" db:"floor"`

	SignalStrength float64 `json:"signalStrength" db:"signal_strength"` // 0.0 to 1.0

	Timestamp            int64   `json:"timestamp" db:"captured_at"` // Unix milliseconds
	DistanceFromPrevious float64 `json:"distanceFromPrevious" db:"distance_from_previous"`
}

// SampleInput is the payload a client posts for a new calibration point.
// Derived fields (relative height, distance from previous) are computed server-side.
type SampleInput struct {
	Name           string   `json:"name"`
	Latitude       float64  `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude      float64  `json:"longitude" binding:"gte=-180,lte=180"`
	Altitude       float64  `json:"altitude"`
	SignalStrength *float64 `json:"signalStrength" binding:"required"`
	Floor          int      `json:"floor"`     // Optional, inferred from height when 0
	Timestamp      int64    `json:"timestamp"` // Unix milliseconds, defaults to now
}
