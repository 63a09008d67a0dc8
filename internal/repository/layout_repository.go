package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/etell/placement-backend/internal/database"
	"github.com/etell/placement-backend/internal/models"
)

const roomColumns = `id, sample_id, name, x, y, width, height, floor, signal_strength, room_type`

// LayoutRepository handles database operations for floor layouts and their rooms
type LayoutRepository struct {
	db *sql.DB
}

// NewLayoutRepository creates a new layout repository
func NewLayoutRepository(db *sql.DB) *LayoutRepository {
	return &LayoutRepository{db: db}
}

// CreateLayout inserts a layout and its rooms. Room order is preserved.
func (r *LayoutRepository) CreateLayout(ctx context.Context, layout *models.Layout, rooms []models.Room) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var sessionID interface{}
		if layout.SessionID != "" {
			sessionID = layout.SessionID
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO floor_layouts (id, session_id, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			layout.ID, sessionID, layout.CreatedAt, layout.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create layout: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO layout_rooms (layout_id, seq, `+roomColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare room insert: %w", err)
		}
		defer stmt.Close()

		for i, room := range rooms {
			_, err := stmt.ExecContext(ctx, layout.ID, i,
				room.ID, room.SampleID, room.Name, room.X, room.Y, room.Width, room.Height,
				room.Floor, room.SignalStrength, string(room.Type))
			if err != nil {
				return fmt.Errorf("failed to insert room %s: %w", room.ID, err)
			}
		}
		return nil
	})
}

// GetLayout retrieves layout metadata and its rooms in creation order.
// The returned layout has no floors; grouping is the caller's job.
func (r *LayoutRepository) GetLayout(ctx context.Context, id string) (*models.Layout, []models.Room, error) {
	var layout models.Layout
	var sessionID sql.NullString
	err := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, created_at, updated_at FROM floor_layouts WHERE id = ?`, id).
		Scan(&layout.ID, &sessionID, &layout.CreatedAt, &layout.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrLayoutNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get layout: %w", err)
	}
	layout.SessionID = sessionID.String

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+roomColumns+` FROM layout_rooms WHERE layout_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := []models.Room{}
	for rows.Next() {
		var room models.Room
		var roomType string
		if err := rows.Scan(&room.ID, &room.SampleID, &room.Name, &room.X, &room.Y, &room.Width, &room.Height,
			&room.Floor, &room.SignalStrength, &roomType); err != nil {
			return nil, nil, fmt.Errorf("failed to scan room: %w", err)
		}
		room.Type = models.RoomType(roomType)
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to iterate rooms: %w", err)
	}

	return &layout, rooms, nil
}

// UpdateRoom commits a room's geometry and floor, and bumps the layout's updated_at
func (r *LayoutRepository) UpdateRoom(ctx context.Context, layoutID string, room models.Room, updatedAt int64) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE layout_rooms SET x = ?, y = ?, width = ?, height = ?, floor = ?
			WHERE layout_id = ? AND id = ?`,
			room.X, room.Y, room.Width, room.Height, room.Floor, layoutID, room.ID)
		if err != nil {
			return fmt.Errorf("failed to update room: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update room: %w", err)
		}
		if n == 0 {
			return ErrRoomNotFound
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE floor_layouts SET updated_at = ? WHERE id = ?`, updatedAt, layoutID); err != nil {
			return fmt.Errorf("failed to touch layout: %w", err)
		}
		return nil
	})
}
