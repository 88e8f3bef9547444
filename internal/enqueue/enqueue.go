package enqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

// Enqueuer scans ingested games and queues analysis jobs for those entering
// the pregame window. It never creates a second job or a second pick for a
// game: eligibility plus the stores' uniqueness constraints make enqueueing
// idempotent.
type Enqueuer struct {
	store    store.Store
	logger   *slog.Logger
	provider string
	leagues  []string
	window   time.Duration
}

func New(st store.Store, logger *slog.Logger, provider string, leagues []string) *Enqueuer {
	return &Enqueuer{
		store:    st,
		logger:   logger,
		provider: provider,
		leagues:  leagues,
		window:   PregameWindow,
	}
}

// EnqueueDueGames queues jobs for scheduled games whose start time falls in
// [now, now+window]. Returns the number of jobs created or revived.
func (e *Enqueuer) EnqueueDueGames(ctx context.Context, now time.Time) (int, error) {
	games, err := e.store.ListGamesStartingBetween(ctx, e.provider, now, now.Add(e.window), e.leagues)
	if err != nil {
		return 0, fmt.Errorf("listing due games: %w", err)
	}
	return e.enqueueGames(ctx, games, now)
}

// EnqueueForDate queues jobs for the given UTC calendar day. Eligibility
// still applies, so only games currently inside their pregame window are
// queued; the rest are picked up by later periodic runs.
func (e *Enqueuer) EnqueueForDate(ctx context.Context, day time.Time, now time.Time) (int, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	games, err := e.store.ListGamesStartingBetween(ctx, e.provider, dayStart, dayStart.Add(24*time.Hour), e.leagues)
	if err != nil {
		return 0, fmt.Errorf("listing games for date: %w", err)
	}
	return e.enqueueGames(ctx, games, now)
}

func (e *Enqueuer) enqueueGames(ctx context.Context, games []*models.Game, now time.Time) (int, error) {
	created := 0
	for _, g := range games {
		queued, err := e.enqueueGame(ctx, g, now)
		if err != nil {
			return created, err
		}
		if queued {
			created++
		}
	}
	return created, nil
}

// enqueueGame queues one game if it is eligible and not already analyzed.
// A failed job is revived with a fresh attempt budget; any other existing job
// means the game is already handled.
func (e *Enqueuer) enqueueGame(ctx context.Context, g *models.Game, now time.Time) (bool, error) {
	if !Eligible(g, now, e.window) {
		return false, nil
	}

	if _, err := e.store.GetPickByGameID(ctx, g.ID); err == nil {
		return false, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, fmt.Errorf("checking existing pick for game %d: %w", g.ID, err)
	}

	existing, err := e.store.GetPickJobByGameID(ctx, g.ID)
	switch {
	case err == nil:
		if existing.Status != models.JobStatusFailed {
			return false, nil
		}
		if err := e.store.RequeueFailedJob(ctx, existing.ID, now); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Lost a race with another actor; the job is no longer failed.
				return false, nil
			}
			return false, fmt.Errorf("requeueing job %d: %w", existing.ID, err)
		}
		e.logger.Info("revived failed pick job",
			"job_id", existing.ID, "game_id", g.ID, "league", g.League)
		return true, nil

	case errors.Is(err, store.ErrNotFound):
		job := &models.PickJob{
			GameID:   g.ID,
			Status:   models.JobStatusQueued,
			Attempts: 0,
			RunAt:    now,
		}
		if err := e.store.CreatePickJob(ctx, job); err != nil {
			if errors.Is(err, store.ErrDuplicateKey) {
				return false, nil
			}
			return false, fmt.Errorf("creating job for game %d: %w", g.ID, err)
		}
		e.logger.Info("queued pick job",
			"job_id", job.ID, "game_id", g.ID, "league", g.League,
			"start_time", g.StartTime.Format(time.RFC3339))
		return true, nil

	default:
		return false, fmt.Errorf("checking existing job for game %d: %w", g.ID, err)
	}
}

// Run executes EnqueueDueGames immediately and then on every interval tick
// until the context is canceled.
func (e *Enqueuer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if n, err := e.EnqueueDueGames(ctx, time.Now().UTC()); err != nil {
			e.logger.Error("enqueue sweep failed", "error", err)
		} else if n > 0 {
			e.logger.Info("enqueue sweep complete", "jobs_queued", n)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
