package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/etell/placement-backend/internal/analysis/layout"
	"github.com/etell/placement-backend/internal/analysis/placement"
	"github.com/etell/placement-backend/internal/logging"
	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/observability"
	"github.com/etell/placement-backend/internal/repository"
	"github.com/etell/placement-backend/internal/spatial"
)

// SessionService handles the calibration session lifecycle and placement analysis
type SessionService struct {
	sessions *repository.SessionRepository
	results  *repository.ResultRepository
	analyzer *placement.Analyzer
	metrics  *observability.Collector
	logger   *logging.Logger
	now      func() time.Time
}

// NewSessionService creates a new session service
func NewSessionService(
	sessions *repository.SessionRepository,
	results *repository.ResultRepository,
	analyzer *placement.Analyzer,
	metrics *observability.Collector,
	logger *logging.Logger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		results:  results,
		analyzer: analyzer,
		metrics:  metrics,
		logger:   logger.With("component", "session_service"),
		now:      time.Now,
	}
}

// CreateSession starts a new calibration session
func (s *SessionService) CreateSession(ctx context.Context, name string) (*models.Session, error) {
	session := &models.Session{
		ID:        uuid.NewString(),
		Name:      name,
		StartedAt: s.now().UnixMilli(),
		Samples:   []models.Sample{},
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	s.logger.Info("session created", "session_id", session.ID)
	return session, nil
}

// ListSessions retrieves sessions with filtering and pagination
func (s *SessionService) ListSessions(ctx context.Context, filter models.SessionFilter) ([]models.Session, int64, error) {
	return s.sessions.ListSessions(ctx, filter)
}

// GetSession retrieves a session with its samples
func (s *SessionService) GetSession(ctx context.Context, id string) (*models.Session, error) {
	return s.sessions.GetSession(ctx, id)
}

// AddSample validates a sample and appends it to an open session.
// Relative height, distance from the previous sample and (when omitted) the
// floor are derived here.
func (s *SessionService) AddSample(ctx context.Context, sessionID string, input models.SampleInput) (*models.Sample, error) {
	if err := validateSample(input); err != nil {
		return nil, err
	}

	sample, err := s.sessions.AppendSample(ctx, sessionID, func(session *models.Session, first, last *models.Sample) (models.Sample, error) {
		if session.IsComplete() {
			return models.Sample{}, ErrSessionEnded
		}
		return s.deriveSample(input, first, last)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncSamples()
	s.logger.Debug("sample added", "session_id", sessionID, "sample_id", sample.ID, "signal", sample.SignalStrength)
	return sample, nil
}

func validateSample(input models.SampleInput) error {
	if input.SignalStrength == nil {
		return fmt.Errorf("%w: signal strength is required", ErrInvalidSample)
	}
	if sig := *input.SignalStrength; sig < 0 || sig > 1 {
		return fmt.Errorf("%w: signal strength %v outside [0, 1]", ErrInvalidSample, sig)
	}
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return fmt.Errorf("%w: position (%v, %v) out of range", ErrInvalidSample, input.Latitude, input.Longitude)
	}
	if input.Floor < 0 {
		return fmt.Errorf("%w: floor %d", ErrInvalidSample, input.Floor)
	}
	return nil
}

func (s *SessionService) deriveSample(input models.SampleInput, first, last *models.Sample) (models.Sample, error) {
	sample := models.Sample{
		ID:             uuid.NewString(),
		Name:           input.Name,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Altitude:       input.Altitude,
		SignalStrength: *input.SignalStrength,
		Timestamp:      input.Timestamp,
	}
	if sample.Timestamp == 0 {
		sample.Timestamp = s.now().UnixMilli()
	}
	if sample.Name == "" {
		sample.Name = "Point " + sample.ID[:8]
	}

	if first != nil {
		sample.RelativeHeight = sample.Altitude - first.Altitude
	}
	if last != nil {
		if sample.Timestamp < last.Timestamp {
			return models.Sample{}, fmt.Errorf("%w: captured at %d, before the previous sample (%d)",
				ErrInvalidSample, sample.Timestamp, last.Timestamp)
		}
		sample.DistanceFromPrevious = spatial.HaversineDistance(last.Latitude, last.Longitude, sample.Latitude, sample.Longitude)
	}

	sample.Floor = input.Floor
	if sample.Floor == 0 {
		sample.Floor = layout.FloorForHeight(sample.RelativeHeight)
	}
	return sample, nil
}

// EndSession marks an open session as complete.
// Concurrent calls for one session yield a single success; the others get ErrSessionEnded.
func (s *SessionService) EndSession(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsComplete() {
		return nil, ErrSessionEnded
	}

	endedAt := s.now().UnixMilli()
	if err := s.sessions.EndSession(ctx, id, endedAt); err != nil {
		return nil, err
	}
	session.EndedAt = &endedAt

	s.logger.Info("session ended", "session_id", id, "samples", len(session.Samples))
	return session, nil
}

// AnalyzePlacement runs the placement analysis over a session's samples and stores the result.
// Sessions with fewer than three samples yield placement.ErrInsufficientData.
func (s *SessionService) AnalyzePlacement(ctx context.Context, sessionID string) (*models.AnalysisRecord, error) {
	start := s.now()

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.analyzer.AnalyzeOptimalPlacement(session.Samples)
	if err != nil {
		outcome := observability.OutcomeError
		if errors.Is(err, placement.ErrInsufficientData) {
			outcome = observability.OutcomeInsufficientData
		}
		s.metrics.ObserveAnalysis(models.AnalysisKindPlacement, outcome, time.Since(start))
		return nil, err
	}

	record := &models.AnalysisRecord{
		ID:        uuid.NewString(),
		Kind:      models.AnalysisKindPlacement,
		SubjectID: sessionID,
		CreatedAt: s.now().UnixMilli(),
		Placement: result,
	}
	if err := s.results.SaveResult(ctx, record); err != nil {
		s.metrics.ObserveAnalysis(models.AnalysisKindPlacement, observability.OutcomeError, time.Since(start))
		return nil, err
	}

	s.metrics.ObserveAnalysis(models.AnalysisKindPlacement, observability.OutcomeSuccess, time.Since(start))
	s.metrics.AddRecommendations("router", 1)
	s.metrics.AddRecommendations("extender", len(result.ExtenderRecommendations))
	s.logger.Info("placement analyzed",
		"session_id", sessionID,
		"result_id", record.ID,
		"router", result.OptimalRouterLocation.Sample.Name,
		"extenders", len(result.ExtenderRecommendations),
		"coverage_pct", result.Coverage.CoveragePercentage,
	)
	return record, nil
}

// GetAnalysis retrieves a stored analysis result
func (s *SessionService) GetAnalysis(ctx context.Context, id string) (*models.AnalysisRecord, error) {
	return s.results.GetResult(ctx, id)
}
