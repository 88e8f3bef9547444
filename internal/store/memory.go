package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/edgestake/pickwire/pkg/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used in tests and local development. A
// single mutex stands in for the database transaction: every method is atomic
// with respect to every other, which preserves the claim/reap exclusivity the
// Postgres implementation gets from row locking.
type MemoryStore struct {
	mu       sync.Mutex
	settings *models.Settings
	games    map[int64]*models.Game
	jobs     map[int64]*models.PickJob
	picks    map[int64]*models.Pick // keyed by game_id
	keys     map[uuid.UUID]*models.APIKey
	nextGame int64
	nextJob  int64
	nextPick int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[int64]*models.Game),
		jobs:  make(map[int64]*models.PickJob),
		picks: make(map[int64]*models.Pick),
		keys:  make(map[uuid.UUID]*models.APIKey),
	}
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }

// AddGame seeds a game row and returns its assigned id. Test helper; games
// are read-only through the Store interface.
func (s *MemoryStore) AddGame(g *models.Game) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextGame++
	g.ID = s.nextGame
	cp := *g
	s.games[g.ID] = &cp
	return g.ID
}

// --- Settings ---

func (s *MemoryStore) GetOrCreateSettings(_ context.Context) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		s.settings = models.DefaultSettings()
	}
	cp := *s.settings
	return &cp, nil
}

func (s *MemoryStore) UpdateSettings(_ context.Context, st *models.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return ErrNotFound
	}
	cp := *st
	cp.ID = 1
	cp.UpdatedAt = time.Now().UTC()
	s.settings = &cp
	return nil
}

// --- Games ---

func (s *MemoryStore) GetGame(_ context.Context, id int64) (*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (s *MemoryStore) ListGamesStartingBetween(_ context.Context, provider string, from, to time.Time, leagues []string) ([]*models.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Game
	for _, g := range s.games {
		if g.Provider != provider || g.StartTime == nil {
			continue
		}
		if g.StartTime.Before(from) || g.StartTime.After(to) {
			continue
		}
		if len(leagues) > 0 && !contains(leagues, g.League) {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(*out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(*out[j].StartTime)
	})
	return out, nil
}

// --- Pick jobs ---

func (s *MemoryStore) CreatePickJob(_ context.Context, job *models.PickJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.GameID == job.GameID {
			return ErrDuplicateKey
		}
	}
	s.nextJob++
	job.ID = s.nextJob
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = job.CreatedAt
	cp := *job
	s.jobs[job.ID] = &cp
	return nil
}

func (s *MemoryStore) GetPickJob(_ context.Context, id int64) (*models.PickJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (s *MemoryStore) GetPickJobByGameID(_ context.Context, gameID int64) (*models.PickJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, j := range s.jobs {
		if j.GameID == gameID {
			cp := *j
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListPickJobs(_ context.Context, filter JobFilter) ([]*models.PickJob, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.PickJob
	for _, j := range s.jobs {
		if filter.Status != "" && j.Status != filter.Status {
			continue
		}
		if filter.GameID != 0 && j.GameID != filter.GameID {
			continue
		}
		cp := *j
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].RunAt.Equal(all[j].RunAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].RunAt.After(all[j].RunAt)
	})
	total := len(all)
	limit, offset := normalizePage(filter.Page, filter.Limit)
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *MemoryStore) RequeueFailedJob(_ context.Context, id int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Status != models.JobStatusFailed {
		return ErrNotFound
	}
	j.Status = models.JobStatusQueued
	j.Attempts = 0
	j.RunAt = now
	j.LockedAt = nil
	j.LockOwner = nil
	j.LastError = nil
	j.UpdatedAt = now
	return nil
}

func (s *MemoryStore) ClaimPickJobs(_ context.Context, maxN int, lockOwner string, now time.Time) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if maxN <= 0 {
		return nil, nil
	}
	var due []*models.PickJob
	for _, j := range s.jobs {
		if j.Status == models.JobStatusQueued && !j.RunAt.After(now) {
			due = append(due, j)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].RunAt.Equal(due[j].RunAt) {
			return due[i].ID < due[j].ID
		}
		return due[i].RunAt.Before(due[j].RunAt)
	})
	if len(due) > maxN {
		due = due[:maxN]
	}
	var ids []int64
	for _, j := range due {
		lockedAt := now
		owner := lockOwner
		j.Status = models.JobStatusRunning
		j.LockedAt = &lockedAt
		j.LockOwner = &owner
		j.UpdatedAt = now
		ids = append(ids, j.ID)
	}
	return ids, nil
}

func (s *MemoryStore) ReapStaleJobs(_ context.Context, staleBefore time.Time, currentOwner string, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recovered := 0
	for _, j := range s.jobs {
		if j.Status != models.JobStatusRunning || j.LockedAt == nil || j.LockedAt.After(staleBefore) {
			continue
		}
		previous := "unknown"
		if j.LockOwner != nil {
			previous = *j.LockOwner
		}
		note := fmt.Sprintf("recovered stale running job from lock_owner=%s by lock_owner=%s", previous, currentOwner)
		j.Status = models.JobStatusQueued
		j.RunAt = now
		j.LockedAt = nil
		j.LockOwner = nil
		j.LastError = &note
		j.UpdatedAt = now
		recovered++
	}
	return recovered, nil
}

func (s *MemoryStore) CompletePickJob(_ context.Context, id int64, lockOwner, note string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Status != models.JobStatusRunning || j.LockOwner == nil || *j.LockOwner != lockOwner {
		return ErrNotFound
	}
	j.Status = models.JobStatusDone
	j.LockedAt = nil
	j.LockOwner = nil
	if note == "" {
		j.LastError = nil
	} else {
		j.LastError = &note
	}
	j.UpdatedAt = now
	return nil
}

func (s *MemoryStore) RecordJobFailure(_ context.Context, id int64, lockOwner, summary string, maxRetries int, now time.Time) (string, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.jobs[id]
	if !ok || j.Status != models.JobStatusRunning || j.LockOwner == nil || *j.LockOwner != lockOwner {
		return "", 0, ErrNotFound
	}
	j.Attempts++
	j.LastError = &summary
	if j.Attempts <= maxRetries {
		j.Status = models.JobStatusQueued
		j.RunAt = now
	} else {
		j.Status = models.JobStatusFailed
	}
	j.LockedAt = nil
	j.LockOwner = nil
	j.UpdatedAt = now
	return j.Status, j.Attempts, nil
}

func (s *MemoryStore) QueueStats(_ context.Context, now time.Time) (*QueueStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &QueueStats{}
	for _, j := range s.jobs {
		stats.Total++
		switch j.Status {
		case models.JobStatusQueued:
			stats.Queued++
			if !j.RunAt.After(now) {
				stats.Eligible++
			}
			if stats.NextRunAt == nil || j.RunAt.Before(*stats.NextRunAt) {
				runAt := j.RunAt
				stats.NextRunAt = &runAt
			}
		case models.JobStatusRunning:
			stats.Running++
		case models.JobStatusDone:
			stats.Done++
		case models.JobStatusFailed:
			stats.Failed++
		}
	}
	return stats, nil
}

// --- Picks ---

func (s *MemoryStore) UpsertPick(_ context.Context, pick *models.Pick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := s.picks[pick.GameID]; ok {
		pick.ID = existing.ID
		pick.CreatedAt = existing.CreatedAt
	} else {
		s.nextPick++
		pick.ID = s.nextPick
		pick.CreatedAt = now
	}
	pick.UpdatedAt = &now
	cp := *pick
	s.picks[pick.GameID] = &cp
	return nil
}

func (s *MemoryStore) GetPick(_ context.Context, id int64) (*models.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.picks {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetPickByGameID(_ context.Context, gameID int64) (*models.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.picks[gameID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *MemoryStore) ListPicks(_ context.Context, filter PickFilter) ([]*models.Pick, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []*models.Pick
	for _, p := range s.picks {
		if filter.Result != "" && p.Result != filter.Result {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	total := len(all)
	limit, offset := normalizePage(filter.Page, filter.Limit)
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// --- API keys ---

func (s *MemoryStore) GetAPIKeyByPrefix(_ context.Context, prefix string) ([]*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.APIKey
	for _, k := range s.keys {
		if k.KeyPrefix == prefix && k.DeletedAt == nil {
			cp := *k
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemoryStore) UpdateAPIKeyLastUsed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.keys[id]
	if !ok {
		return ErrNotFound
	}
	now := time.Now().UTC()
	k.LastUsedAt = &now
	return nil
}

func (s *MemoryStore) CreateAPIKey(_ context.Context, key *models.APIKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[key.ID]; ok {
		return ErrDuplicateKey
	}
	cp := *key
	s.keys[key.ID] = &cp
	return nil
}

func (s *MemoryStore) ListAPIKeys(_ context.Context) ([]*models.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.APIKey
	for _, k := range s.keys {
		if k.DeletedAt == nil {
			cp := *k
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) RevokeAPIKey(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.keys[id]
	if !ok || k.DeletedAt != nil {
		return ErrNotFound
	}
	now := time.Now().UTC()
	k.DeletedAt = &now
	return nil
}

func contains(items []string, v string) bool {
	for _, item := range items {
		if item == v {
			return true
		}
	}
	return false
}

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
