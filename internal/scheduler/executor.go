package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/edgestake/pickwire/internal/cache"
	"github.com/edgestake/pickwire/internal/enqueue"
	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

// jobStatusTTL bounds how long mirrored job statuses live in the cache.
const jobStatusTTL = time.Hour

// Executor runs a single claimed pick job to a terminal transition: done,
// re-queued, or failed. It owns no concurrency; the worker dispatches one
// Process call per claimed job.
type Executor struct {
	store    store.Store
	client   models.ReasoningClient
	cache    cache.Cache
	logger   *slog.Logger
	provider string
}

func NewExecutor(st store.Store, client models.ReasoningClient, c cache.Cache, logger *slog.Logger, provider string) *Executor {
	return &Executor{
		store:    st,
		client:   client,
		cache:    c,
		logger:   logger,
		provider: provider,
	}
}

// Process handles one claimed job. The job must have been transitioned to
// running by this worker's claim; if ownership was lost in the meantime the
// job is left untouched for whoever holds it now.
func (e *Executor) Process(ctx context.Context, jobID int64, snap models.SettingsSnapshot, lockOwner string) {
	job, err := e.store.GetPickJob(ctx, jobID)
	if err != nil {
		e.logger.Error("loading claimed job", "job_id", jobID, "error", err)
		return
	}
	if job.Status != models.JobStatusRunning || job.LockOwner == nil || *job.LockOwner != lockOwner {
		e.logger.Warn("claimed job no longer owned, skipping",
			"job_id", jobID, "status", job.Status)
		return
	}

	if err := e.analyze(ctx, job, snap, lockOwner); err != nil {
		e.recordFailure(ctx, jobID, lockOwner, snap, err)
	}
}

// analyze performs the happy path plus benign skips. Any returned error is a
// job failure charged against the attempt budget.
func (e *Executor) analyze(ctx context.Context, job *models.PickJob, snap models.SettingsSnapshot, lockOwner string) error {
	now := time.Now().UTC()

	game, err := e.store.GetGame(ctx, job.GameID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.NewFailure(models.FailDataIntegrity, "game %d not found for job", job.GameID)
		}
		return fmt.Errorf("loading game %d: %w", job.GameID, err)
	}

	// Conditions can change between enqueue and execution; re-validate and
	// finish quietly rather than burning attempts on games we no longer want.
	if game.Provider != e.provider {
		return e.skip(ctx, job, lockOwner, now,
			fmt.Sprintf("skipped game from provider=%s", game.Provider))
	}
	if game.Status != models.GameStatusScheduled {
		return e.skip(ctx, job, lockOwner, now,
			fmt.Sprintf("skipped game status=%s", game.Status))
	}
	if !enqueue.Eligible(game, now, enqueue.PregameWindow) {
		return e.skip(ctx, job, lockOwner, now, "skipped game outside pregame window")
	}

	if _, err := e.store.GetPickByGameID(ctx, game.ID); err == nil {
		e.logger.Info("pick already exists, marking job done",
			"job_id", job.ID, "game_id", game.ID)
		return e.complete(ctx, job.ID, lockOwner, "", now)
	} else if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("checking existing pick: %w", err)
	}

	req := buildPickRequest(game, snap, now)
	e.logger.Info("requesting pick analysis",
		"job_id", job.ID, "game_id", game.ID,
		"matchup", game.HomeTeam+" vs "+game.AwayTeam,
		"league", game.League, "model", snap.Model, "effort", snap.ReasoningEffort)

	result, raw, err := e.client.RequestPick(ctx, req, snap)
	if err != nil {
		return err
	}

	if req.Odds == nil {
		e.logger.Info("no odds available, coercing to NO_BET", "job_id", job.ID)
		result.CoerceNoOdds()
	}

	pick := pickFromResult(game.ID, result, raw)
	if err := e.store.UpsertPick(ctx, pick); err != nil {
		return fmt.Errorf("saving pick for game %d: %w", game.ID, err)
	}
	e.logger.Info("pick saved",
		"job_id", job.ID, "game_id", game.ID,
		"result", result.Result, "confidence", result.Confidence,
		"stake_u", result.StakeUnits)

	return e.complete(ctx, job.ID, lockOwner, "", time.Now().UTC())
}

// skip records a benign completion: the job is done with an explanatory note
// and no attempt is consumed.
func (e *Executor) skip(ctx context.Context, job *models.PickJob, lockOwner string, now time.Time, note string) error {
	e.logger.Info("skipping job", "job_id", job.ID, "game_id", job.GameID, "reason", note)
	return e.complete(ctx, job.ID, lockOwner, note, now)
}

func (e *Executor) complete(ctx context.Context, jobID int64, lockOwner, note string, now time.Time) error {
	if err := e.store.CompletePickJob(ctx, jobID, lockOwner, note, now); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Reaped or finished elsewhere while we worked; nothing to record.
			e.logger.Warn("lost job ownership before completion", "job_id", jobID)
			return nil
		}
		return fmt.Errorf("completing job %d: %w", jobID, err)
	}
	e.mirrorStatus(ctx, jobID, models.JobStatusDone)
	return nil
}

// recordFailure charges the failure against the job's attempt budget and logs
// the resulting transition.
func (e *Executor) recordFailure(ctx context.Context, jobID int64, lockOwner string, snap models.SettingsSnapshot, cause error) {
	summary := failureSummary(cause)
	status, attempts, err := e.store.RecordJobFailure(
		ctx, jobID, lockOwner, summary, snap.MaxRetries, time.Now().UTC())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			e.logger.Warn("lost job ownership before failure record",
				"job_id", jobID, "error_summary", summary)
			return
		}
		e.logger.Error("recording job failure", "job_id", jobID, "error", err)
		return
	}

	switch status {
	case models.JobStatusQueued:
		e.logger.Warn("job re-queued after failure",
			"job_id", jobID, "attempts", attempts, "max_retries", snap.MaxRetries,
			"error_summary", summary)
	case models.JobStatusFailed:
		e.logger.Error("job exhausted retries",
			"job_id", jobID, "attempts", attempts, "max_retries", snap.MaxRetries,
			"error_summary", summary)
	}
	e.mirrorStatus(ctx, jobID, status)
}

// mirrorStatus publishes the job's terminal status to the cache for cheap
// polling. Cache trouble never affects the job outcome.
func (e *Executor) mirrorStatus(ctx context.Context, jobID int64, status string) {
	if e.cache == nil {
		return
	}
	if err := e.cache.SetJobStatus(ctx, jobID, status, jobStatusTTL); err != nil {
		e.logger.Warn("mirroring job status to cache failed", "job_id", jobID, "error", err)
	}
}

// failureSummary renders the short machine-readable text stored in
// last_error. Tagged failures keep their kind prefix; anything else is
// labeled by its dominant cause.
func failureSummary(err error) string {
	var failure *models.Failure
	if errors.As(err, &failure) {
		return failure.Error()
	}
	return fmt.Sprintf("error: %s", err.Error())
}

// buildPickRequest assembles the analysis payload for a game. Odds ingestion
// is not wired yet, so pricing is always absent and every returned pick is
// coerced to NO_BET.
func buildPickRequest(game *models.Game, snap models.SettingsSnapshot, now time.Time) models.PickRequest {
	var start *string
	if game.StartTime != nil {
		s := game.StartTime.UTC().Format(time.RFC3339)
		start = &s
	}
	return models.PickRequest{
		Sport:       game.Sport,
		League:      game.League,
		HomeTeam:    game.HomeTeam,
		AwayTeam:    game.AwayTeam,
		StartTime:   start,
		Odds:        nil,
		AllowTotals: snap.AllowTotalsDefault,
		AsOf:        now.Format(time.RFC3339),
		Sources:     []string{},
	}
}

func pickFromResult(gameID int64, r *models.PickResult, raw string) *models.Pick {
	return &models.Pick{
		GameID:            gameID,
		Result:            r.Result,
		Market:            r.Market,
		Emoji:             r.Emoji,
		Selection:         r.Selection,
		Line:              r.Line,
		OddsFormat:        r.OddsFormat,
		Odds:              r.Odds,
		PEst:              r.PEst,
		PImplied:          r.PImplied,
		EV:                r.EV,
		Confidence:        r.Confidence,
		StakeUnits:        r.StakeUnits,
		HighProbLowPayout: r.HighProbLowPayout,
		IsValue:           r.IsValue,
		Reasons:           r.Reasons,
		Risks:             r.Risks,
		Triggers:          r.Triggers,
		MissingData:       r.MissingData,
		AsOf:              r.AsOf,
		Notes:             r.Notes,
		RawResponse:       raw,
	}
}
