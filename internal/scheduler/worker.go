// Package scheduler polls the job queue and runs claimed pick jobs with
// bounded concurrency.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/edgestake/pickwire/internal/store"
	"github.com/edgestake/pickwire/pkg/models"
)

// RunningStaleTimeout is how long a running job may hold its lock before a
// worker treats it as orphaned and returns it to the queue.
const RunningStaleTimeout = 15 * time.Minute

// fallbackPollInterval is used when settings cannot be loaded or carry a
// non-positive poll interval.
const fallbackPollInterval = 30 * time.Second

// Worker is the scheduling loop. One Worker runs per process; multiple
// processes may poll the same queue, with atomic claims keeping their work
// disjoint.
type Worker struct {
	store     store.Store
	executor  *Executor
	logger    *slog.Logger
	lockOwner string
}

func NewWorker(st store.Store, executor *Executor, logger *slog.Logger) *Worker {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	return &Worker{
		store:     st,
		executor:  executor,
		logger:    logger,
		lockOwner: fmt.Sprintf("%s:%d", hostname, os.Getpid()),
	}
}

// LockOwner returns this worker's claim identity.
func (w *Worker) LockOwner() string { return w.lockOwner }

// Run polls until the context is canceled. Each cycle re-reads settings, so
// operator changes to concurrency, polling, or the kill switch take effect on
// the next cycle without a restart.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("worker started", "lock_owner", w.lockOwner)
	defer w.logger.Info("worker stopped", "lock_owner", w.lockOwner)

	idlePolls := 0
	for {
		if ctx.Err() != nil {
			return
		}

		settings, err := w.store.GetOrCreateSettings(ctx)
		if err != nil {
			w.logger.Error("loading settings", "error", err)
			if !w.wait(ctx, fallbackPollInterval) {
				return
			}
			continue
		}
		snap := settings.Snapshot()
		poll := snap.PollInterval
		if poll <= 0 {
			poll = fallbackPollInterval
		}

		if !snap.PicksEnabled {
			w.logger.Warn("picks disabled, worker idle")
			if !w.wait(ctx, poll) {
				return
			}
			continue
		}
		if snap.APIKey == "" {
			w.logger.Warn("no OpenAI API key configured, skipping cycle")
			if !w.wait(ctx, poll) {
				return
			}
			continue
		}

		now := time.Now().UTC()
		recovered, err := w.store.ReapStaleJobs(ctx, now.Add(-RunningStaleTimeout), w.lockOwner, now)
		if err != nil {
			w.logger.Error("reaping stale jobs", "error", err)
		} else if recovered > 0 {
			w.logger.Warn("recovered stale running jobs",
				"count", recovered, "stale_timeout", RunningStaleTimeout)
		}

		jobIDs, err := w.store.ClaimPickJobs(ctx, snap.Concurrency, w.lockOwner, now)
		if err != nil {
			w.logger.Error("claiming jobs", "error", err)
			if !w.wait(ctx, poll) {
				return
			}
			continue
		}

		if len(jobIDs) == 0 {
			idlePolls++
			if idlePolls == 1 || idlePolls%10 == 0 {
				w.logIdleSnapshot(ctx, now)
			}
			if !w.wait(ctx, poll) {
				return
			}
			continue
		}
		idlePolls = 0
		w.logger.Info("claimed jobs", "count", len(jobIDs), "job_ids", jobIDs)

		w.dispatch(ctx, jobIDs, snap)
	}
}

// dispatch runs the claimed jobs, at most snap.Concurrency at a time, and
// waits for all of them before the next cycle. In-flight jobs finish even
// when the context is canceled mid-batch.
func (w *Worker) dispatch(ctx context.Context, jobIDs []int64, snap models.SettingsSnapshot) {
	// Claimed jobs run on a detached context so a shutdown signal does not
	// abort in-flight analysis. Abandoned running rows would otherwise sit
	// until the stale reaper returns them to the queue.
	runCtx := context.WithoutCancel(ctx)

	sem := semaphore.NewWeighted(int64(snap.Concurrency))
	var wg sync.WaitGroup
	for _, jobID := range jobIDs {
		if err := sem.Acquire(runCtx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			defer sem.Release(1)
			w.executor.Process(runCtx, id, snap, w.lockOwner)
		}(jobID)
	}
	wg.Wait()
}

// logIdleSnapshot logs queue counters so an operator can tell an empty queue
// from a stuck one without querying the database.
func (w *Worker) logIdleSnapshot(ctx context.Context, now time.Time) {
	stats, err := w.store.QueueStats(ctx, now)
	if err != nil {
		w.logger.Error("loading queue stats", "error", err)
		return
	}
	next := "none"
	if stats.NextRunAt != nil {
		next = stats.NextRunAt.UTC().Format(time.RFC3339)
	}
	w.logger.Info("worker idle, no eligible jobs",
		"total", stats.Total, "queued", stats.Queued, "eligible", stats.Eligible,
		"running", stats.Running, "done", stats.Done, "failed", stats.Failed,
		"next_queued_run_at", next, "now", now.Format(time.RFC3339))
}

// wait sleeps for d or until the context is canceled. Returns false on
// cancellation.
func (w *Worker) wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
