package service

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etell/placement-backend/internal/analysis/layout"
	"github.com/etell/placement-backend/internal/analysis/placement"
	"github.com/etell/placement-backend/internal/database"
	"github.com/etell/placement-backend/internal/logging"
	"github.com/etell/placement-backend/internal/models"
	"github.com/etell/placement-backend/internal/observability"
	"github.com/etell/placement-backend/internal/repository"
)

type fixture struct {
	sessions *SessionService
	layouts  *LayoutService
	metrics  *observability.Collector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "service.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.MigrateUp(db))

	metrics, err := observability.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	sessionRepo := repository.NewSessionRepository(db)
	resultRepo := repository.NewResultRepository(db)
	layoutRepo := repository.NewLayoutRepository(db)
	logger := logging.Nop()

	var mu sync.Mutex
	clock := time.UnixMilli(1_700_000_000_000)
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}

	ss := NewSessionService(sessionRepo, resultRepo, placement.NewAnalyzer(), metrics, logger)
	ss.now = now
	ls := NewLayoutService(layoutRepo, sessionRepo, resultRepo, layout.NewAnalyzer(), metrics, logger)
	ls.now = now

	return &fixture{sessions: ss, layouts: ls, metrics: metrics}
}

func signal(v float64) *float64 { return &v }

func addSamples(t *testing.T, f *fixture, sessionID string, inputs ...models.SampleInput) []*models.Sample {
	t.Helper()
	out := make([]*models.Sample, 0, len(inputs))
	for _, in := range inputs {
		s, err := f.sessions.AddSample(context.Background(), sessionID, in)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestSessionService_AddSampleDerivesFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.CreateSession(ctx, "home")
	require.NoError(t, err)

	samples := addSamples(t, f, session.ID,
		models.SampleInput{Name: "Living Room", Latitude: 0, Longitude: 0, Altitude: 10, SignalStrength: signal(0.9)},
		models.SampleInput{Name: "Bedroom", Latitude: 0, Longitude: 0.0001, Altitude: 13.5, SignalStrength: signal(0.3)},
		models.SampleInput{Latitude: 0, Longitude: 0.0001, Altitude: 10, SignalStrength: signal(0.5), Floor: 3},
	)

	assert.Equal(t, 0.0, samples[0].RelativeHeight)
	assert.Equal(t, 0.0, samples[0].DistanceFromPrevious)
	assert.Equal(t, 1, samples[0].Floor)

	assert.InDelta(t, 3.5, samples[1].RelativeHeight, 1e-9)
	assert.InDelta(t, 11.1, samples[1].DistanceFromPrevious, 0.1)
	assert.Equal(t, 2, samples[1].Floor)

	assert.InDelta(t, 0.0, samples[2].DistanceFromPrevious, 1e-9)
	assert.Equal(t, 3, samples[2].Floor, "explicit floor is kept")
	assert.NotEmpty(t, samples[2].Name, "unnamed samples get a generated name")

	got, err := f.sessions.GetSession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, got.Samples, 3)
	assert.Equal(t, "Living Room", got.Samples[0].Name)
	assert.Equal(t, 3.0, testutil.ToFloat64(f.metrics.SamplesIngested))
}

func TestSessionService_AddSampleValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.CreateSession(ctx, "validation")
	require.NoError(t, err)

	tests := []struct {
		name  string
		input models.SampleInput
	}{
		{"missing signal", models.SampleInput{Latitude: 1, Longitude: 1}},
		{"signal above one", models.SampleInput{SignalStrength: signal(1.2)}},
		{"negative signal", models.SampleInput{SignalStrength: signal(-0.1)}},
		{"latitude out of range", models.SampleInput{Latitude: 91, SignalStrength: signal(0.5)}},
		{"negative floor", models.SampleInput{Floor: -1, SignalStrength: signal(0.5)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.sessions.AddSample(ctx, session.ID, tt.input)
			assert.ErrorIs(t, err, ErrInvalidSample)
		})
	}

	t.Run("out of order timestamp", func(t *testing.T) {
		addSamples(t, f, session.ID, models.SampleInput{SignalStrength: signal(0.5), Timestamp: 5000})
		_, err := f.sessions.AddSample(ctx, session.ID, models.SampleInput{SignalStrength: signal(0.5), Timestamp: 4000})
		assert.ErrorIs(t, err, ErrInvalidSample)
	})

	t.Run("unknown session", func(t *testing.T) {
		_, err := f.sessions.AddSample(ctx, "missing", models.SampleInput{SignalStrength: signal(0.5)})
		assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	})
}

func TestSessionService_EndSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.CreateSession(ctx, "ending")
	require.NoError(t, err)

	ended, err := f.sessions.EndSession(ctx, session.ID)
	require.NoError(t, err)
	assert.True(t, ended.IsComplete())

	_, err = f.sessions.AddSample(ctx, session.ID, models.SampleInput{SignalStrength: signal(0.5)})
	assert.ErrorIs(t, err, ErrSessionEnded)

	_, err = f.sessions.EndSession(ctx, session.ID)
	assert.ErrorIs(t, err, ErrSessionEnded)

	_, err = f.sessions.EndSession(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestSessionService_EndSessionConcurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.CreateSession(ctx, "racing")
	require.NoError(t, err)

	const workers = 16
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sessions.EndSession(ctx, session.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrSessionEnded)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSessionService_AnalyzePlacement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.CreateSession(ctx, "analysis")
	require.NoError(t, err)

	addSamples(t, f, session.ID,
		models.SampleInput{Name: "Kitchen", Latitude: 0, Longitude: 0, SignalStrength: signal(0.9)},
		models.SampleInput{Name: "Office", Latitude: 0, Longitude: 0.0002, SignalStrength: signal(0.3)},
	)

	_, err = f.sessions.AnalyzePlacement(ctx, session.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, placement.ErrInsufficientData))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AnalysesTotal.WithLabelValues(models.AnalysisKindPlacement, observability.OutcomeInsufficientData)))

	addSamples(t, f, session.ID,
		models.SampleInput{Name: "Hallway", Latitude: 0, Longitude: 0.0001, SignalStrength: signal(0.6)},
	)

	record, err := f.sessions.AnalyzePlacement(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, record.Placement)
	assert.Equal(t, models.AnalysisKindPlacement, record.Kind)
	assert.Equal(t, session.ID, record.SubjectID)
	assert.Equal(t, "Kitchen", record.Placement.OptimalRouterLocation.Sample.Name)
	require.Len(t, record.Placement.ExtenderRecommendations, 1)
	assert.Equal(t, "Office", record.Placement.ExtenderRecommendations[0].WeakSpotName)
	assert.Equal(t, 3, record.Placement.Coverage.TotalPoints)

	stored, err := f.sessions.GetAnalysis(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Placement.OptimalRouterLocation.Sample.ID, stored.Placement.OptimalRouterLocation.Sample.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AnalysesTotal.WithLabelValues(models.AnalysisKindPlacement, observability.OutcomeSuccess)))

	_, err = f.sessions.GetAnalysis(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrResultNotFound)
}

func TestLayoutService_BuildAndUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.CreateSession(ctx, "layout")
	require.NoError(t, err)
	addSamples(t, f, session.ID,
		models.SampleInput{Name: "Living Room", SignalStrength: signal(0.9), Floor: 1},
		models.SampleInput{Name: "Main Hall", SignalStrength: signal(0.6), Floor: 1},
		models.SampleInput{Name: "Study", SignalStrength: signal(0.2), Floor: 1},
		models.SampleInput{Name: "Stairs", SignalStrength: signal(0.4), Floor: 2},
	)

	built, err := f.layouts.BuildFromSession(ctx, session.ID)
	require.NoError(t, err)
	require.Len(t, built.Floors, 2)
	assert.Equal(t, 1, built.Floors[0].Floor)
	require.Len(t, built.Floors[0].Rooms, 3)
	assert.Equal(t, models.RoomTypeHallway, built.Floors[0].Rooms[1].Type)
	assert.Equal(t, models.RoomTypeStaircase, built.Floors[1].Rooms[0].Type)

	fetched, err := f.layouts.GetLayout(ctx, built.ID)
	require.NoError(t, err)
	assert.Equal(t, built.Floors[0].Adjacency, fetched.Floors[0].Adjacency)

	study := fetched.Floors[0].Rooms[2]
	living := fetched.Floors[0].Rooms[0]
	require.Contains(t, fetched.Floors[0].Adjacency[study.ID], fetched.Floors[0].Rooms[1].ID)

	t.Run("move breaks adjacency", func(t *testing.T) {
		farX, farY := 1000.0, 1000.0
		updated, err := f.layouts.UpdateRoom(ctx, built.ID, study.ID, models.RoomUpdate{X: &farX, Y: &farY})
		require.NoError(t, err)
		assert.Empty(t, updated.Floors[0].Adjacency[study.ID])
	})

	t.Run("resize is clamped", func(t *testing.T) {
		huge, tiny := 500.0, 1.0
		updated, err := f.layouts.UpdateRoom(ctx, built.ID, living.ID, models.RoomUpdate{Width: &huge, Height: &tiny})
		require.NoError(t, err)
		got := updated.Floors[0].Rooms[0]
		assert.Equal(t, models.MaxRoomWidth, got.Width)
		assert.Equal(t, models.MinRoomHeight, got.Height)
	})

	t.Run("change floor", func(t *testing.T) {
		floor := 2
		updated, err := f.layouts.UpdateRoom(ctx, built.ID, study.ID, models.RoomUpdate{Floor: &floor})
		require.NoError(t, err)
		require.Len(t, updated.Floors[1].Rooms, 2)
		assert.Len(t, updated.Floors[0].Rooms, 2)
	})

	t.Run("floor below one", func(t *testing.T) {
		floor := 0
		_, err := f.layouts.UpdateRoom(ctx, built.ID, study.ID, models.RoomUpdate{Floor: &floor})
		assert.ErrorIs(t, err, ErrInvalidRoomUpdate)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := f.layouts.UpdateRoom(ctx, built.ID, "missing", models.RoomUpdate{})
		assert.ErrorIs(t, err, repository.ErrRoomNotFound)
	})

	t.Run("unknown layout", func(t *testing.T) {
		_, err := f.layouts.GetLayout(ctx, "missing")
		assert.ErrorIs(t, err, repository.ErrLayoutNotFound)
	})
}

func TestLayoutService_AnalyzeLayout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.sessions.CreateSession(ctx, "layout analysis")
	require.NoError(t, err)
	addSamples(t, f, session.ID,
		models.SampleInput{Name: "Living Room", SignalStrength: signal(0.9), Floor: 1},
		models.SampleInput{Name: "Study", SignalStrength: signal(0.2), Floor: 1},
	)

	built, err := f.layouts.BuildFromSession(ctx, session.ID)
	require.NoError(t, err)

	record, err := f.layouts.AnalyzeLayout(ctx, built.ID)
	require.NoError(t, err)
	require.NotNil(t, record.Layout)
	assert.Equal(t, models.AnalysisKindLayout, record.Kind)
	require.Len(t, record.Layout.RouterRecommendations, 1)
	assert.Equal(t, "Living Room", record.Layout.RouterRecommendations[0].Room.Name)
	require.Len(t, record.Layout.ExtenderRecommendations, 1)
	assert.Equal(t, "Study", record.Layout.ExtenderRecommendations[0].WeakRoomName)
	assert.Equal(t, 2, record.Layout.Coverage.TotalPoints)

	stored, err := f.sessions.GetAnalysis(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.Layout.Coverage, stored.Layout.Coverage)

	_, err = f.layouts.AnalyzeLayout(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrLayoutNotFound)
}
