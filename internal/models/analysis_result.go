package models

// AnalysisKind constants
const (
	AnalysisKindPlacement = "placement"
	AnalysisKindLayout    = "layout"
)

// AnalysisRecord is a stored analysis run
type AnalysisRecord struct {
	ID        string `json:"id" db:"id"`
	Kind      string `json:"kind" db:"kind"`             // placement, layout
	SubjectID string `json:"subjectId" db:"subject_id"` // Session or layout ID
	CreatedAt int64  `json:"createdAt" db:"created_at"`

	Placement *PlacementResult `json:"placement,omitempty"`
	Layout    *LayoutResult    `json:"layout,omitempty"`
}
