package models

// Session is an ordered collection of samples from one calibration run
type Session struct {
	ID        string   `json:"id" db:"id"`
	Name      string   `json:"name,omitempty" db:"name"`
	StartedAt int64    `json:"startedAt" db:"started_at"`         // Unix milliseconds
	EndedAt   *int64   `json:"endedAt,omitempty" db:"ended_at"`   // Unix milliseconds
	Samples   []Sample `json:"samples,omitempty"`
	// SampleCount is filled by list queries where samples are not loaded
	SampleCount int `json:"sampleCount"`
}

// IsComplete reports whether the session has been ended
func (s *Session) IsComplete() bool {
	return s.EndedAt != nil
}

// SessionFilter represents filter parameters for listing sessions
type SessionFilter struct {
	Completed *bool `form:"completed"`
	Page      int   `form:"page"`
	PageSize  int   `form:"pageSize"`
}

// CreateSessionRequest is the body of POST /sessions
type CreateSessionRequest struct {
	Name string `json:"name"`
}
