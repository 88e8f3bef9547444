package store

import (
	"context"
	"errors"
	"time"

	"github.com/edgestake/pickwire/pkg/models"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error

	// Settings. The single app_settings row is created with defaults on first
	// access; the scheduler snapshots it once per cycle.
	GetOrCreateSettings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, s *models.Settings) error

	// Games are owned by the ingestion pipeline; read-only here.
	GetGame(ctx context.Context, id int64) (*models.Game, error)
	ListGamesStartingBetween(ctx context.Context, provider string, from, to time.Time, leagues []string) ([]*models.Game, error)

	// Pick jobs: the persisted queue.
	CreatePickJob(ctx context.Context, job *models.PickJob) error
	GetPickJob(ctx context.Context, id int64) (*models.PickJob, error)
	GetPickJobByGameID(ctx context.Context, gameID int64) (*models.PickJob, error)
	ListPickJobs(ctx context.Context, filter JobFilter) ([]*models.PickJob, int, error)
	RequeueFailedJob(ctx context.Context, id int64, now time.Time) error

	// ClaimPickJobs atomically transitions up to maxN due queued jobs to
	// running, stamped with lockOwner, inside a single transaction. Row-level
	// locking is the only mutual exclusion between concurrent claimers.
	ClaimPickJobs(ctx context.Context, maxN int, lockOwner string, now time.Time) ([]int64, error)

	// ReapStaleJobs returns running jobs whose lock is older than staleBefore
	// to the queue, clearing lock metadata and recording a diagnostic note.
	// Attempts are not incremented. Returns the number of recovered jobs.
	ReapStaleJobs(ctx context.Context, staleBefore time.Time, currentOwner string, now time.Time) (int, error)

	// CompletePickJob marks a running job done, provided lockOwner still holds
	// it. A non-empty note replaces last_error (benign skips); an empty note
	// clears it. Returns ErrNotFound when the job was reaped or finished by
	// another actor in the meantime.
	CompletePickJob(ctx context.Context, id int64, lockOwner, note string, now time.Time) error

	// RecordJobFailure increments attempts, stores the failure summary, and
	// either re-queues the job (attempts <= maxRetries) or fails it
	// permanently, clearing lock metadata on both paths. Returns the resulting
	// status and attempt count.
	RecordJobFailure(ctx context.Context, id int64, lockOwner, summary string, maxRetries int, now time.Time) (string, int, error)

	QueueStats(ctx context.Context, now time.Time) (*QueueStats, error)

	// Picks. Created or overwritten only by the job executor.
	UpsertPick(ctx context.Context, pick *models.Pick) error
	GetPick(ctx context.Context, id int64) (*models.Pick, error)
	GetPickByGameID(ctx context.Context, gameID int64) (*models.Pick, error)
	ListPicks(ctx context.Context, filter PickFilter) ([]*models.Pick, int, error)

	// API keys for the inspection API.
	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID) error
}

// JobFilter narrows and pages pick job listings.
type JobFilter struct {
	Status string
	GameID int64
	Page   int
	Limit  int
}

// PickFilter narrows and pages pick listings.
type PickFilter struct {
	Result string
	Page   int
	Limit  int
}

// QueueStats is a point-in-time summary of the job queue, used for idle
// logging and the health surface.
type QueueStats struct {
	Total     int        `json:"total"`
	Queued    int        `json:"queued"`
	Eligible  int        `json:"eligible"`
	Running   int        `json:"running"`
	Done      int        `json:"done"`
	Failed    int        `json:"failed"`
	NextRunAt *time.Time `json:"next_queued_run_at,omitempty"`
}
