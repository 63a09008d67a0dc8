package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/etell/placement-backend/internal/database"
	"github.com/etell/placement-backend/internal/models"
)

const sampleColumns = `id, session_id, name, latitude, longitude, altitude, relative_height,
	floor, signal_strength, captured_at, distance_from_previous`

// SessionRepository handles database operations for calibration sessions and samples
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateSession inserts a new session
func (r *SessionRepository) CreateSession(ctx context.Context, s *models.Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO calibration_sessions (id, name, started_at, ended_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, s.StartedAt, s.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session with its samples in capture order
func (r *SessionRepository) GetSession(ctx context.Context, id string) (*models.Session, error) {
	s, err := getSession(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	samples, err := listSamples(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	s.Samples = samples
	s.SampleCount = len(samples)
	return s, nil
}

// ListSessions retrieves sessions with filtering and pagination, newest first.
// Samples are not loaded; SampleCount is filled instead.
func (r *SessionRepository) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.Session, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.Completed != nil {
		if *filter.Completed {
			conditions = append(conditions, "s.ended_at IS NOT NULL")
		} else {
			conditions = append(conditions, "s.ended_at IS NULL")
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM calibration_sessions s"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > 500 {
		filter.PageSize = 500
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := `SELECT s.id, s.name, s.started_at, s.ended_at,
		(SELECT COUNT(*) FROM calibration_samples c WHERE c.session_id = s.id)
		FROM calibration_sessions s` + where + ` ORDER BY s.started_at DESC, s.id LIMIT ? OFFSET ?`
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var s models.Session
		var endedAt sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Name, &s.StartedAt, &endedAt, &s.SampleCount); err != nil {
			return nil, 0, fmt.Errorf("failed to scan session: %w", err)
		}
		if endedAt.Valid {
			s.EndedAt = &endedAt.Int64
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, total, nil
}

// SampleBuilder derives the sample to store from the session's first and
// last samples (nil when the session is empty) and the session itself.
type SampleBuilder func(session *models.Session, first, last *models.Sample) (models.Sample, error)

// AppendSample builds and inserts the next sample of a session in one transaction,
// so derived fields always see a consistent predecessor.
func (r *SessionRepository) AppendSample(ctx context.Context, sessionID string, build SampleBuilder) (*models.Sample, error) {
	var stored models.Sample
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		session, err := getSession(ctx, tx, sessionID)
		if err != nil {
			return err
		}

		first, err := sampleAt(ctx, tx, sessionID, "ASC")
		if err != nil {
			return err
		}
		last, err := sampleAt(ctx, tx, sessionID, "DESC")
		if err != nil {
			return err
		}

		sample, err := build(session, first, last)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `INSERT INTO calibration_samples (`+sampleColumns+`, seq)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
				(SELECT COALESCE(MAX(seq), 0) + 1 FROM calibration_samples WHERE session_id = ?))`,
			sample.ID, sessionID, sample.Name, sample.Latitude, sample.Longitude, sample.Altitude,
			sample.RelativeHeight, sample.Floor, sample.SignalStrength, sample.Timestamp,
			sample.DistanceFromPrevious, sessionID)
		if err != nil {
			return fmt.Errorf("failed to insert sample: %w", err)
		}

		sample.SessionID = sessionID
		stored = sample
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// EndSession sets the end time of an open session.
// Only the first of several concurrent calls succeeds; the rest get ErrSessionEnded.
func (r *SessionRepository) EndSession(ctx context.Context, id string, endedAt int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE calibration_sessions SET ended_at = ? WHERE id = ? AND ended_at IS NULL`, endedAt, id)
		if err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to end session: %w", err)
		}
		if n > 0 {
			return nil
		}

		// Nothing updated: either the session is missing or it was already ended
		if _, err := getSession(ctx, tx, id); err != nil {
			return err
		}
		return ErrSessionEnded
	})
}

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func getSession(ctx context.Context, q querier, id string) (*models.Session, error) {
	var s models.Session
	var endedAt sql.NullInt64
	err := q.QueryRowContext(ctx,
		`SELECT id, name, started_at, ended_at FROM calibration_sessions WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.StartedAt, &endedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if endedAt.Valid {
		s.EndedAt = &endedAt.Int64
	}
	return &s, nil
}

func listSamples(ctx context.Context, q querier, sessionID string) ([]models.Sample, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+sampleColumns+` FROM calibration_samples WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	samples := []models.Sample{}
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate samples: %w", err)
	}
	return samples, nil
}

// sampleAt returns the first (ASC) or last (DESC) sample of a session, or nil
func sampleAt(ctx context.Context, q querier, sessionID, order string) (*models.Sample, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+sampleColumns+` FROM calibration_samples WHERE session_id = ? ORDER BY seq `+order+` LIMIT 1`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sample: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanSample(rows)
}

func scanSample(rows *sql.Rows) (*models.Sample, error) {
	var s models.Sample
	err := rows.Scan(&s.ID, &s.SessionID, &s.Name, &s.Latitude, &s.Longitude, &s.Altitude,
		&s.RelativeHeight, &s.Floor, &s.SignalStrength, &s.Timestamp, &s.DistanceFromPrevious)
	if err != nil {
		return nil, fmt.Errorf("failed to scan sample: %w", err)
	}
	return &s, nil
}
