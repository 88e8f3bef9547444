package store_test

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

// migrationsDir returns the absolute path to the migrations directory.
func migrationsDir() string {
	_, filename, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(filename), "..", "..", "migrations")
}

// setupTestDB spins up a Postgres container, runs migrations, and returns a pool + cleanup.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("pickwire_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Run migrations
	err = store.RunMigrations(connStr, migrationsDir())
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	return pool
}

// insertGame seeds a game row directly; games are read-only through the Store.
func insertGame(t *testing.T, pool *pgxpool.Pool, league string, start time.Time) int64 {
	t.Helper()
	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO games (provider, provider_event_id, sport, league, start_time_utc, status, home_team, away_team)
		 VALUES ('espn', $1, 'basketball', $2, $3, 'scheduled', 'Home', 'Away')
		 RETURNING id`,
		fmt.Sprintf("evt-%s", uuid.NewString()[:8]), league, start,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func queueJob(t *testing.T, s store.Store, gameID int64, runAt time.Time) int64 {
	t.Helper()
	job := &models.PickJob{
		GameID: gameID,
		Status: models.JobStatusQueued,
		RunAt:  runAt,
	}
	require.NoError(t, s.CreatePickJob(context.Background(), job))
	return job.ID
}

// --- Settings Tests ---

func TestSettings_SeedOnFirstAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	settings, err := s.GetOrCreateSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, settings.ID)
	assert.Equal(t, "gpt-5", settings.Model)
	assert.Equal(t, "high", settings.ReasoningEffort)
	assert.True(t, settings.PicksEnabled)
	assert.Equal(t, 2, settings.Concurrency)
	assert.Equal(t, 30, settings.PollSeconds)
	assert.Equal(t, 2, settings.MaxRetries)
	assert.False(t, settings.AllowTotalsDefault)
	assert.Nil(t, settings.OpenAIAPIKey)

	// Second access reads the same singleton row.
	again, err := s.GetOrCreateSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.UpdatedAt, again.UpdatedAt)
}

func TestSettings_Update(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	settings, err := s.GetOrCreateSettings(ctx)
	require.NoError(t, err)

	key := "sk-live-key"
	settings.OpenAIAPIKey = &key
	settings.Concurrency = 4
	settings.PicksEnabled = false
	require.NoError(t, s.UpdateSettings(ctx, settings))

	updated, err := s.GetOrCreateSettings(ctx)
	require.NoError(t, err)
	require.NotNil(t, updated.OpenAIAPIKey)
	assert.Equal(t, "sk-live-key", *updated.OpenAIAPIKey)
	assert.Equal(t, 4, updated.Concurrency)
	assert.False(t, updated.PicksEnabled)
}

// --- Game Tests ---

func TestListGamesStartingBetween(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	inRange := insertGame(t, pool, "NBA", base.Add(time.Hour))
	insertGame(t, pool, "NBA", base.Add(48*time.Hour))
	insertGame(t, pool, "MLB", base.Add(time.Hour))

	games, err := s.ListGamesStartingBetween(ctx, "espn", base, base.Add(2*time.Hour), []string{"NBA", "NHL"})
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, inRange, games[0].ID)

	// No league filter returns both leagues in range.
	games, err = s.ListGamesStartingBetween(ctx, "espn", base, base.Add(2*time.Hour), nil)
	require.NoError(t, err)
	assert.Len(t, games, 2)
}

func TestGetGame_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)

	_, err := s.GetGame(context.Background(), 999999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

// --- Pick Job Tests ---

func TestCreatePickJob_OnePerGame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	gameID := insertGame(t, pool, "NBA", now.Add(time.Hour))
	jobID := queueJob(t, s, gameID, now)

	// Creation stamps row timestamps; callers do not supply them.
	job, err := s.GetPickJob(ctx, jobID)
	require.NoError(t, err)
	assert.False(t, job.CreatedAt.IsZero())
	assert.False(t, job.UpdatedAt.IsZero())

	err = s.CreatePickJob(ctx, &models.PickJob{
		GameID: gameID, Status: models.JobStatusQueued, RunAt: now,
	})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)
}

func TestClaimPickJobs_OrdersByRunAtAndLimits(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	first := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(-3*time.Minute))
	second := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(-2*time.Minute))
	third := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(-time.Minute))
	queueJob(t, s, insertGame(t, pool, "NBA", now.Add(3*time.Hour)), now.Add(time.Hour))

	ids, err := s.ClaimPickJobs(ctx, 2, "worker-a:1", now)
	require.NoError(t, err)
	assert.Equal(t, []int64{first, second}, ids)

	job, err := s.GetPickJob(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, job.Status)
	require.NotNil(t, job.LockOwner)
	assert.Equal(t, "worker-a:1", *job.LockOwner)
	assert.NotNil(t, job.LockedAt)

	// A second claimer sees only what the first left behind; the job whose
	// run_at is still in the future stays untouched.
	ids, err = s.ClaimPickJobs(ctx, 10, "worker-b:1", now)
	require.NoError(t, err)
	assert.Equal(t, []int64{third}, ids)

	ids, err = s.ClaimPickJobs(ctx, 10, "worker-c:1", now)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestClaimPickJobs_ConcurrentClaimersAreDisjoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 10; i++ {
		queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(-time.Minute))
	}

	results := make(chan []int64, 4)
	for i := 0; i < 4; i++ {
		owner := fmt.Sprintf("worker-%d", i)
		go func() {
			ids, err := s.ClaimPickJobs(ctx, 3, owner, now)
			assert.NoError(t, err)
			results <- ids
		}()
	}

	seen := make(map[int64]bool)
	claimed := 0
	for i := 0; i < 4; i++ {
		for _, id := range <-results {
			assert.False(t, seen[id], "job %d claimed twice", id)
			seen[id] = true
			claimed++
		}
	}
	assert.Equal(t, 10, claimed)
}

func TestCompletePickJob_OwnerGuard(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	jobID := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now)
	_, err := s.ClaimPickJobs(ctx, 1, "owner-a", now)
	require.NoError(t, err)

	err = s.CompletePickJob(ctx, jobID, "owner-b", "", now)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CompletePickJob(ctx, jobID, "owner-a", "", now))
	job, err := s.GetPickJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusDone, job.Status)
	assert.Nil(t, job.LastError)
	assert.False(t, job.Locked())

	// Completing an already-done job is not possible.
	err = s.CompletePickJob(ctx, jobID, "owner-a", "", now)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCompletePickJob_StoresNote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	jobID := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now)
	_, err := s.ClaimPickJobs(ctx, 1, "owner-a", now)
	require.NoError(t, err)

	require.NoError(t, s.CompletePickJob(ctx, jobID, "owner-a", "skipped game status=final", now))
	job, err := s.GetPickJob(ctx, jobID)
	require.NoError(t, err)
	require.NotNil(t, job.LastError)
	assert.Equal(t, "skipped game status=final", *job.LastError)
}

func TestRecordJobFailure_RequeuesThenFails(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	jobID := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now)
	_, err := s.ClaimPickJobs(ctx, 1, "owner-a", now)
	require.NoError(t, err)

	// Wrong owner cannot record a failure.
	_, _, err = s.RecordJobFailure(ctx, jobID, "owner-b", "timeout: boom", 1, now)
	assert.ErrorIs(t, err, store.ErrNotFound)

	status, attempts, err := s.RecordJobFailure(ctx, jobID, "owner-a", "timeout: boom", 1, now)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, status)
	assert.Equal(t, 1, attempts)

	_, err = s.ClaimPickJobs(ctx, 1, "owner-a", now)
	require.NoError(t, err)

	status, attempts, err = s.RecordJobFailure(ctx, jobID, "owner-a", "timeout: boom again", 1, now)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, status)
	assert.Equal(t, 2, attempts)

	job, err := s.GetPickJob(ctx, jobID)
	require.NoError(t, err)
	assert.False(t, job.Locked())
	require.NotNil(t, job.LastError)
	assert.Equal(t, "timeout: boom again", *job.LastError)
}

func TestReapStaleJobs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	staleID := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(-30*time.Minute))
	_, err := s.ClaimPickJobs(ctx, 1, "dead-host:1", now.Add(-20*time.Minute))
	require.NoError(t, err)

	freshID := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now)
	_, err = s.ClaimPickJobs(ctx, 1, "live-host:1", now)
	require.NoError(t, err)

	recovered, err := s.ReapStaleJobs(ctx, now.Add(-15*time.Minute), "live-host:2", now)
	require.NoError(t, err)
	assert.Equal(t, 1, recovered)

	stale, err := s.GetPickJob(ctx, staleID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, stale.Status)
	assert.Zero(t, stale.Attempts)
	assert.False(t, stale.Locked())
	require.NotNil(t, stale.LastError)
	assert.Equal(t, "recovered stale running job from lock_owner=dead-host:1 by lock_owner=live-host:2", *stale.LastError)

	fresh, err := s.GetPickJob(ctx, freshID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, fresh.Status)

	// Nothing left to recover on a second pass.
	recovered, err = s.ReapStaleJobs(ctx, now.Add(-15*time.Minute), "live-host:2", now)
	require.NoError(t, err)
	assert.Zero(t, recovered)
}

func TestRequeueFailedJob(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	jobID := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now)

	// Only failed jobs can be revived.
	err := s.RequeueFailedJob(ctx, jobID, now)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.ClaimPickJobs(ctx, 1, "owner-a", now)
	require.NoError(t, err)
	_, _, err = s.RecordJobFailure(ctx, jobID, "owner-a", "config: missing OpenAI API key", 0, now)
	require.NoError(t, err)

	require.NoError(t, s.RequeueFailedJob(ctx, jobID, now))
	job, err := s.GetPickJob(ctx, jobID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, job.Status)
	assert.Zero(t, job.Attempts)
	assert.Nil(t, job.LastError)
	assert.False(t, job.Locked())
}

func TestListPickJobs_FilterAndPaginate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(time.Duration(i)*time.Minute))
	}

	jobs, total, err := s.ListPickJobs(ctx, store.JobFilter{Status: models.JobStatusQueued, Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, jobs, 2)
	// Newest run_at first.
	assert.True(t, jobs[0].RunAt.After(jobs[1].RunAt))

	jobs, total, err = s.ListPickJobs(ctx, store.JobFilter{Status: models.JobStatusDone})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, jobs)
}

func TestQueueStats(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(-time.Minute))
	queueJob(t, s, insertGame(t, pool, "NBA", now.Add(3*time.Hour)), now.Add(2*time.Hour))
	runningID := queueJob(t, s, insertGame(t, pool, "NBA", now.Add(time.Hour)), now.Add(-2*time.Minute))
	_, err := s.ClaimPickJobs(ctx, 1, "owner-a", now.Add(-90*time.Second))
	require.NoError(t, err)

	stats, err := s.QueueStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Queued)
	assert.Equal(t, 1, stats.Eligible)
	assert.Equal(t, 1, stats.Running)
	assert.Zero(t, stats.Done)
	assert.Zero(t, stats.Failed)
	require.NotNil(t, stats.NextRunAt)

	// The claimed job was the earliest; next queued run_at is the due one.
	job, err := s.GetPickJob(ctx, runningID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, job.Status)
}

// --- Pick Tests ---

func testPick(gameID int64) *models.Pick {
	market := "ML"
	selection := "HOME"
	format := "decimal"
	odds := 1.91
	return &models.Pick{
		GameID:      gameID,
		Result:      models.ResultLean,
		Market:      &market,
		Emoji:       "🤔",
		Selection:   &selection,
		OddsFormat:  &format,
		Odds:        &odds,
		PEst:        0.55,
		Confidence:  60,
		StakeUnits:  0.5,
		IsValue:     true,
		Reasons:     []string{"priced below estimated probability"},
		Risks:       []string{"thin sample"},
		Triggers:    []string{"lineup confirmation"},
		MissingData: []string{},
		AsOf:        "2026-03-14T18:00:00Z",
		Notes:       "test pick",
		RawResponse: `{"result":"LEAN"}`,
	}
}

func TestUpsertPick_InsertAndOverwrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	gameID := insertGame(t, pool, "NBA", now.Add(time.Hour))

	pick := testPick(gameID)
	require.NoError(t, s.UpsertPick(ctx, pick))
	assert.NotZero(t, pick.ID)

	got, err := s.GetPickByGameID(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, models.ResultLean, got.Result)
	assert.Equal(t, []string{"priced below estimated probability"}, got.Reasons)
	assert.Equal(t, []string{}, got.MissingData)
	assert.Equal(t, `{"result":"LEAN"}`, got.RawResponse)

	// A second analysis of the same game overwrites in place.
	rewrite := testPick(gameID)
	rewrite.Result = models.ResultNoBet
	rewrite.StakeUnits = 0
	rewrite.IsValue = false
	rewrite.MissingData = []string{"odds"}
	require.NoError(t, s.UpsertPick(ctx, rewrite))
	assert.Equal(t, pick.ID, rewrite.ID)

	got, err = s.GetPickByGameID(ctx, gameID)
	require.NoError(t, err)
	assert.Equal(t, models.ResultNoBet, got.Result)
	assert.Zero(t, got.StakeUnits)
	assert.Equal(t, []string{"odds"}, got.MissingData)
	assert.NotNil(t, got.UpdatedAt)
}

func TestListPicks_FilterByResult(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC()
	lean := testPick(insertGame(t, pool, "NBA", now.Add(time.Hour)))
	require.NoError(t, s.UpsertPick(ctx, lean))

	noBet := testPick(insertGame(t, pool, "NBA", now.Add(time.Hour)))
	noBet.Result = models.ResultNoBet
	require.NoError(t, s.UpsertPick(ctx, noBet))

	picks, total, err := s.ListPicks(ctx, store.PickFilter{Result: models.ResultLean})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, picks, 1)
	assert.Equal(t, lean.GameID, picks[0].GameID)

	picks, total, err = s.ListPicks(ctx, store.PickFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, picks, 2)
}

// --- API Key Tests ---

func TestAPIKey_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	key := &models.APIKey{
		ID:        uuid.New(),
		Name:      "test-key",
		KeyHash:   "bcrypt-hash-here",
		KeyPrefix: "pw_abcd",
		Scopes:    []string{"read", "admin"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, s.CreateAPIKey(ctx, key))

	keys, err := s.GetAPIKeyByPrefix(ctx, "pw_abcd")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, key.ID, keys[0].ID)
	assert.Equal(t, "test-key", keys[0].Name)
	assert.Equal(t, []string{"read", "admin"}, keys[0].Scopes)
}

func TestAPIKey_Revoke(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	key := &models.APIKey{
		ID:        uuid.New(),
		Name:      "to-revoke",
		KeyHash:   "hash",
		KeyPrefix: "pw_gone",
		Scopes:    []string{"read"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateAPIKey(ctx, key))

	require.NoError(t, s.RevokeAPIKey(ctx, key.ID))

	keys, err := s.GetAPIKeyByPrefix(ctx, "pw_gone")
	require.NoError(t, err)
	assert.Empty(t, keys)

	// Revoking twice is a not-found.
	err = s.RevokeAPIKey(ctx, key.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAPIKey_LastUsed(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	pool := setupTestDB(t)
	s := store.NewPostgresStore(pool)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	key := &models.APIKey{
		ID:        uuid.New(),
		Name:      "used-key",
		KeyHash:   "hash",
		KeyPrefix: "pw_used",
		Scopes:    []string{"read"},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreateAPIKey(ctx, key))
	require.NoError(t, s.UpdateAPIKeyLastUsed(ctx, key.ID))

	keys, err := s.GetAPIKeyByPrefix(ctx, "pw_used")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotNil(t, keys[0].LastUsedAt)
}
