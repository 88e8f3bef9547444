package models

import "time"

// PickJob lifecycle statuses.
const (
	JobStatusQueued  = "queued"
	JobStatusRunning = "running"
	JobStatusDone    = "done"
	JobStatusFailed  = "failed"
)

// PickJob is one unit of "analyze this game" work. At most one row exists per
// game. A running job always carries locked_at and lock_owner; a job in any
// other status carries neither.
type PickJob struct {
	ID        int64      `db:"id"         json:"id"`
	GameID    int64      `db:"game_id"    json:"game_id"`
	Status    string     `db:"status"     json:"status"`
	Attempts  int        `db:"attempts"   json:"attempts"`
	RunAt     time.Time  `db:"run_at"     json:"run_at"`
	LockedAt  *time.Time `db:"locked_at"  json:"locked_at,omitempty"`
	LockOwner *string    `db:"lock_owner" json:"lock_owner,omitempty"`
	LastError *string    `db:"last_error" json:"last_error,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Locked reports whether the job currently holds lock metadata. Used by
// invariant checks: Locked must equal (Status == running).
func (j *PickJob) Locked() bool {
	return j.LockedAt != nil && j.LockOwner != nil
}
