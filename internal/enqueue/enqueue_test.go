package enqueue_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgestake/pickwire/internal/enqueue"
	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedGame(ms *store.MemoryStore, league string, start time.Time, status string) int64 {
	return ms.AddGame(&models.Game{
		Provider:        "espn",
		ProviderEventID: "evt-" + league + start.Format("150405"),
		Sport:           "basketball",
		League:          league,
		StartTime:       &start,
		Status:          status,
		HomeTeam:        "Home",
		AwayTeam:        "Away",
	})
}

func TestEnqueueDueGames_CreatesJobs(t *testing.T) {
	ms := store.NewMemoryStore()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	gameID := seedGame(ms, "NBA", now.Add(time.Hour), models.GameStatusScheduled)

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA", "NHL"})
	created, err := e.EnqueueDueGames(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	job, err := ms.GetPickJobByGameID(context.Background(), gameID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, job.Status)
	assert.Equal(t, 0, job.Attempts)
	assert.Equal(t, now, job.RunAt)
	assert.False(t, job.Locked())
	assert.False(t, job.CreatedAt.IsZero())
	assert.False(t, job.UpdatedAt.IsZero())
}

func TestEnqueueDueGames_Idempotent(t *testing.T) {
	ms := store.NewMemoryStore()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	seedGame(ms, "NBA", now.Add(time.Hour), models.GameStatusScheduled)

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA"})

	created, err := e.EnqueueDueGames(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// A second sweep finds the existing job and creates nothing.
	created, err = e.EnqueueDueGames(context.Background(), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	jobs, total, err := ms.ListPickJobs(context.Background(), store.JobFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, jobs, 1)
}

func TestEnqueueDueGames_SkipsGameWithPick(t *testing.T) {
	ms := store.NewMemoryStore()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	gameID := seedGame(ms, "NBA", now.Add(time.Hour), models.GameStatusScheduled)

	require.NoError(t, ms.UpsertPick(context.Background(), &models.Pick{
		GameID: gameID,
		Result: models.ResultNoBet,
	}))

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA"})
	created, err := e.EnqueueDueGames(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	_, err = ms.GetPickJobByGameID(context.Background(), gameID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEnqueueDueGames_RevivesFailedJob(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	gameID := seedGame(ms, "NBA", now.Add(time.Hour), models.GameStatusScheduled)

	job := &models.PickJob{GameID: gameID, Status: models.JobStatusQueued, RunAt: now.Add(-time.Hour)}
	require.NoError(t, ms.CreatePickJob(ctx, job))
	ids, err := ms.ClaimPickJobs(ctx, 1, "w:1", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, ids, 1)
	_, _, err = ms.RecordJobFailure(ctx, job.ID, "w:1", "timeout: request failed", 0, now.Add(-time.Hour))
	require.NoError(t, err)

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA"})
	created, err := e.EnqueueDueGames(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	revived, err := ms.GetPickJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, revived.Status)
	assert.Equal(t, 0, revived.Attempts)
	assert.Nil(t, revived.LastError)
	assert.Equal(t, now, revived.RunAt)
}

func TestEnqueueDueGames_DoesNotTouchDoneJob(t *testing.T) {
	ms := store.NewMemoryStore()
	ctx := context.Background()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	gameID := seedGame(ms, "NBA", now.Add(time.Hour), models.GameStatusScheduled)

	job := &models.PickJob{GameID: gameID, Status: models.JobStatusQueued, RunAt: now.Add(-time.Hour)}
	require.NoError(t, ms.CreatePickJob(ctx, job))
	ids, err := ms.ClaimPickJobs(ctx, 1, "w:1", now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, ids, 1)
	require.NoError(t, ms.CompletePickJob(ctx, job.ID, "w:1", "", now.Add(-time.Hour)))

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA"})
	created, err := e.EnqueueDueGames(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)

	got, err := ms.GetPickJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusDone, got.Status)
}

func TestEnqueueDueGames_LeagueFilter(t *testing.T) {
	ms := store.NewMemoryStore()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	seedGame(ms, "NBA", now.Add(time.Hour), models.GameStatusScheduled)
	seedGame(ms, "MLB", now.Add(time.Hour), models.GameStatusScheduled)

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA"})
	created, err := e.EnqueueDueGames(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestEnqueueDueGames_IgnoresOutOfWindowAndNonScheduled(t *testing.T) {
	ms := store.NewMemoryStore()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	seedGame(ms, "NBA", now.Add(90*time.Minute), models.GameStatusInProgress)
	seedGame(ms, "NBA", now.Add(3*time.Hour), models.GameStatusScheduled)

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA"})
	created, err := e.EnqueueDueGames(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}

func TestEnqueueForDate_OnlyQueuesGamesInWindowNow(t *testing.T) {
	ms := store.NewMemoryStore()
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	// Same day: one game inside the pregame window, one this evening.
	inWindow := seedGame(ms, "NBA", now.Add(time.Hour), models.GameStatusScheduled)
	seedGame(ms, "NBA", now.Add(5*time.Hour), models.GameStatusScheduled)

	e := enqueue.New(ms, discardLogger(), "espn", []string{"NBA"})
	created, err := e.EnqueueForDate(context.Background(), now, now)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	_, err = ms.GetPickJobByGameID(context.Background(), inWindow)
	assert.NoError(t, err)
}
