package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/etell/placement-backend/internal/models"
)

// ResultRepository stores analysis runs as JSON documents
type ResultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new result repository
func NewResultRepository(db *sql.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// SaveResult inserts an analysis record
func (r *ResultRepository) SaveResult(ctx context.Context, rec *models.AnalysisRecord) error {
	var payload interface{}
	switch rec.Kind {
	case models.AnalysisKindPlacement:
		payload = rec.Placement
	case models.AnalysisKindLayout:
		payload = rec.Layout
	default:
		return fmt.Errorf("unknown analysis kind %q", rec.Kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode analysis result: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO analysis_results (id, kind, subject_id, result_json, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Kind, rec.SubjectID, string(data), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

// GetResult retrieves a stored analysis record
func (r *ResultRepository) GetResult(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	var rec models.AnalysisRecord
	var data string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, kind, subject_id, result_json, created_at FROM analysis_results WHERE id = ?`, id).
		Scan(&rec.ID, &rec.Kind, &rec.SubjectID, &data, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrResultNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis result: %w", err)
	}

	switch rec.Kind {
	case models.AnalysisKindPlacement:
		rec.Placement = &models.PlacementResult{}
		err = json.Unmarshal([]byte(data), rec.Placement)
	case models.AnalysisKindLayout:
		rec.Layout = &models.LayoutResult{}
		err = json.Unmarshal([]byte(data), rec.Layout)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode analysis result %s: %w", id, err)
	}
	return &rec, nil
}
