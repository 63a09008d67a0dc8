package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/etell/placement-backend/internal/analysis/layout"
	"github.com/etell/placement-backend/internal/logging"
	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/observability"
	"github.com/etell/placement-backend/internal/repository"
)

// LayoutService builds floor layouts from sessions, applies room edits and runs layout analysis
type LayoutService struct {
	layouts  *repository.LayoutRepository
	sessions *repository.SessionRepository
	results  *repository.ResultRepository
	analyzer *layout.Analyzer
	metrics  *observability.Collector
	logger   *logging.Logger
	now      func() time.Time
}

// NewLayoutService creates a new layout service
func NewLayoutService(
	layouts *repository.LayoutRepository,
	sessions *repository.SessionRepository,
	results *repository.ResultRepository,
	analyzer *layout.Analyzer,
	metrics *observability.Collector,
	logger *logging.Logger,
) *LayoutService {
	return &LayoutService{
		layouts:  layouts,
		sessions: sessions,
		results:  results,
		analyzer: analyzer,
		metrics:  metrics,
		logger:   logger.With("component", "layout_service"),
		now:      time.Now,
	}
}

// BuildFromSession creates a layout with one room per sample of the session
func (s *LayoutService) BuildFromSession(ctx context.Context, sessionID string) (*models.Layout, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	rooms := layout.RoomsFromSamples(session.Samples)
	now := s.now().UnixMilli()
	built := &models.Layout{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.layouts.CreateLayout(ctx, built, rooms); err != nil {
		return nil, err
	}
	built.Floors = layout.GroupFloors(rooms)

	s.logger.Info("layout built", "layout_id", built.ID, "session_id", sessionID, "rooms", len(rooms), "floors", len(built.Floors))
	return built, nil
}

// GetLayout retrieves a layout with rooms grouped by floor and adjacency derived
func (s *LayoutService) GetLayout(ctx context.Context, id string) (*models.Layout, error) {
	stored, rooms, err := s.layouts.GetLayout(ctx, id)
	if err != nil {
		return nil, err
	}
	stored.Floors = layout.GroupFloors(rooms)
	return stored, nil
}

// UpdateRoom commits a move, resize or floor change and returns the layout with adjacency recomputed
func (s *LayoutService) UpdateRoom(ctx context.Context, layoutID, roomID string, update models.RoomUpdate) (*models.Layout, error) {
	if update.Floor != nil && *update.Floor < 1 {
		return nil, fmt.Errorf("%w: floor %d, must be at least 1", ErrInvalidRoomUpdate, *update.Floor)
	}

	_, rooms, err := s.layouts.GetLayout(ctx, layoutID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range rooms {
		if rooms[i].ID == roomID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, repository.ErrRoomNotFound
	}

	room := rooms[idx]
	applyRoomUpdate(&room, update)

	if err := s.layouts.UpdateRoom(ctx, layoutID, room, s.now().UnixMilli()); err != nil {
		return nil, err
	}

	s.logger.Debug("room updated", "layout_id", layoutID, "room_id", roomID, "floor", room.Floor)
	return s.GetLayout(ctx, layoutID)
}

func applyRoomUpdate(room *models.Room, update models.RoomUpdate) {
	x, y := room.X, room.Y
	if update.X != nil {
		x = *update.X
	}
	if update.Y != nil {
		y = *update.Y
	}
	room.MoveTo(x, y)

	if update.Width != nil || update.Height != nil {
		w, h := room.Width, room.Height
		if update.Width != nil {
			w = *update.Width
		}
		if update.Height != nil {
			h = *update.Height
		}
		room.Resize(w, h)
	}

	if update.Floor != nil {
		room.Floor = *update.Floor
	}
}

// AnalyzeLayout runs the layout analysis for every floor and stores the result
func (s *LayoutService) AnalyzeLayout(ctx context.Context, layoutID string) (*models.AnalysisRecord, error) {
	start := s.now()

	current, err := s.GetLayout(ctx, layoutID)
	if err != nil {
		return nil, err
	}

	result := s.analyzer.AnalyzeLayout(current.Floors)
	record := &models.AnalysisRecord{
		ID:        uuid.NewString(),
		Kind:      models.AnalysisKindLayout,
		SubjectID: layoutID,
		CreatedAt: s.now().UnixMilli(),
		Layout:    &result,
	}
	if err := s.results.SaveResult(ctx, record); err != nil {
		s.metrics.ObserveAnalysis(models.AnalysisKindLayout, observability.OutcomeError, time.Since(start))
		return nil, err
	}

	s.metrics.ObserveAnalysis(models.AnalysisKindLayout, observability.OutcomeSuccess, time.Since(start))
	s.metrics.AddRecommendations("router", len(result.RouterRecommendations))
	s.metrics.AddRecommendations("extender", len(result.ExtenderRecommendations))
	s.logger.Info("layout analyzed",
		"layout_id", layoutID,
		"result_id", record.ID,
		"routers", len(result.RouterRecommendations),
		"extenders", len(result.ExtenderRecommendations),
	)
	return record, nil
}
