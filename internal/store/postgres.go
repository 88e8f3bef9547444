package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/edgestake/pickwire/pkg/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Settings ---

const settingsColumns = `id, openai_api_key, openai_model, reasoning_effort, picks_enabled,
	concurrency, poll_seconds, max_retries, allow_totals, updated_at`

func (s *PostgresStore) GetOrCreateSettings(ctx context.Context) (*models.Settings, error) {
	var st models.Settings
	err := s.pool.QueryRow(ctx,
		`SELECT `+settingsColumns+` FROM app_settings WHERE id = 1`,
	).Scan(&st.ID, &st.OpenAIAPIKey, &st.Model, &st.ReasoningEffort, &st.PicksEnabled,
		&st.Concurrency, &st.PollSeconds, &st.MaxRetries, &st.AllowTotalsDefault, &st.UpdatedAt)
	if err == nil {
		return &st, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	// First access: seed the singleton row. A concurrent seeder may win the
	// insert; re-read in that case.
	def := models.DefaultSettings()
	err = s.pool.QueryRow(ctx,
		`INSERT INTO app_settings (id, openai_model, reasoning_effort, picks_enabled,
		   concurrency, poll_seconds, max_retries, allow_totals, updated_at)
		 VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET id = app_settings.id
		 RETURNING `+settingsColumns,
		def.Model, def.ReasoningEffort, def.PicksEnabled, def.Concurrency,
		def.PollSeconds, def.MaxRetries, def.AllowTotalsDefault, def.UpdatedAt,
	).Scan(&st.ID, &st.OpenAIAPIKey, &st.Model, &st.ReasoningEffort, &st.PicksEnabled,
		&st.Concurrency, &st.PollSeconds, &st.MaxRetries, &st.AllowTotalsDefault, &st.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("seed settings: %w", err)
	}
	return &st, nil
}

func (s *PostgresStore) UpdateSettings(ctx context.Context, st *models.Settings) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE app_settings SET openai_api_key = $1, openai_model = $2, reasoning_effort = $3,
		   picks_enabled = $4, concurrency = $5, poll_seconds = $6, max_retries = $7,
		   allow_totals = $8, updated_at = NOW()
		 WHERE id = 1`,
		st.OpenAIAPIKey, st.Model, st.ReasoningEffort, st.PicksEnabled,
		st.Concurrency, st.PollSeconds, st.MaxRetries, st.AllowTotalsDefault)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Games ---

const gameColumns = `id, provider, provider_event_id, sport, league, start_time_utc, status,
	home_team, away_team, home_score, away_score, created_at, updated_at`

func scanGame(row pgx.Row) (*models.Game, error) {
	var g models.Game
	err := row.Scan(&g.ID, &g.Provider, &g.ProviderEventID, &g.Sport, &g.League,
		&g.StartTime, &g.Status, &g.HomeTeam, &g.AwayTeam, &g.HomeScore, &g.AwayScore,
		&g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *PostgresStore) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	g, err := scanGame(s.pool.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game: %w", err)
	}
	return g, nil
}

func (s *PostgresStore) ListGamesStartingBetween(ctx context.Context, provider string, from, to time.Time, leagues []string) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games
		WHERE provider = $1 AND start_time_utc IS NOT NULL
		  AND start_time_utc >= $2 AND start_time_utc <= $3`
	args := []any{provider, from, to}
	if len(leagues) > 0 {
		query += ` AND league = ANY($4)`
		args = append(args, leagues)
	}
	query += ` ORDER BY start_time_utc ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// --- Pick jobs ---

const jobColumns = `id, game_id, status, attempts, run_at, locked_at, lock_owner, last_error,
	created_at, updated_at`

func scanPickJob(row pgx.Row) (*models.PickJob, error) {
	var j models.PickJob
	err := row.Scan(&j.ID, &j.GameID, &j.Status, &j.Attempts, &j.RunAt,
		&j.LockedAt, &j.LockOwner, &j.LastError, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *PostgresStore) CreatePickJob(ctx context.Context, job *models.PickJob) error {
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	job.UpdatedAt = job.CreatedAt
	err := s.pool.QueryRow(ctx,
		`INSERT INTO pick_jobs (game_id, status, attempts, run_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $5)
		 RETURNING id`,
		job.GameID, job.Status, job.Attempts, job.RunAt, job.CreatedAt,
	).Scan(&job.ID)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create pick job: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPickJob(ctx context.Context, id int64) (*models.PickJob, error) {
	j, err := scanPickJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM pick_jobs WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pick job: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) GetPickJobByGameID(ctx context.Context, gameID int64) (*models.PickJob, error) {
	j, err := scanPickJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM pick_jobs WHERE game_id = $1`, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pick job by game: %w", err)
	}
	return j, nil
}

func (s *PostgresStore) ListPickJobs(ctx context.Context, filter JobFilter) ([]*models.PickJob, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.GameID != 0 {
		conditions = append(conditions, fmt.Sprintf("game_id = $%d", argIdx))
		args = append(args, filter.GameID)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM pick_jobs WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count pick jobs: %w", err)
	}

	limit, offset := normalizePage(filter.Page, filter.Limit)
	dataQuery := fmt.Sprintf(
		`SELECT `+jobColumns+` FROM pick_jobs WHERE %s ORDER BY run_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list pick jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*models.PickJob
	for rows.Next() {
		j, err := scanPickJob(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pick job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, total, rows.Err()
}

func (s *PostgresStore) RequeueFailedJob(ctx context.Context, id int64, now time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pick_jobs SET status = 'queued', attempts = 0, run_at = $2,
		   locked_at = NULL, lock_owner = NULL, last_error = NULL, updated_at = $2
		 WHERE id = $1 AND status = 'failed'`, id, now)
	if err != nil {
		return fmt.Errorf("requeue failed job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ClaimPickJobs(ctx context.Context, maxN int, lockOwner string, now time.Time) ([]int64, error) {
	if maxN <= 0 {
		return nil, nil
	}

	// Single statement, single transaction. FOR UPDATE SKIP LOCKED makes
	// concurrent claimers select disjoint rows without an external lock
	// service: a row selected by one claimer is invisible to the others until
	// its status change commits.
	rows, err := s.pool.Query(ctx,
		`UPDATE pick_jobs
		 SET status = 'running', locked_at = $1, lock_owner = $2, updated_at = $1
		 WHERE id IN (
		   SELECT id FROM pick_jobs
		   WHERE status = 'queued' AND run_at <= $1
		   ORDER BY run_at ASC, id ASC
		   LIMIT $3
		   FOR UPDATE SKIP LOCKED
		 )
		 RETURNING id`,
		now, lockOwner, maxN)
	if err != nil {
		return nil, fmt.Errorf("claim pick jobs: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan claimed job id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) ReapStaleJobs(ctx context.Context, staleBefore time.Time, currentOwner string, now time.Time) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pick_jobs
		 SET status = 'queued', run_at = $1, locked_at = NULL, lock_owner = NULL, updated_at = $1,
		     last_error = 'recovered stale running job from lock_owner=' ||
		                  COALESCE(lock_owner, 'unknown') || ' by lock_owner=' || $2
		 WHERE status = 'running' AND locked_at IS NOT NULL AND locked_at <= $3`,
		now, currentOwner, staleBefore)
	if err != nil {
		return 0, fmt.Errorf("reap stale jobs: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) CompletePickJob(ctx context.Context, id int64, lockOwner, note string, now time.Time) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE pick_jobs
		 SET status = 'done', locked_at = NULL, lock_owner = NULL,
		     last_error = NULLIF($3, ''), updated_at = $4
		 WHERE id = $1 AND status = 'running' AND lock_owner = $2`,
		id, lockOwner, note, now)
	if err != nil {
		return fmt.Errorf("complete pick job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) RecordJobFailure(ctx context.Context, id int64, lockOwner, summary string, maxRetries int, now time.Time) (string, int, error) {
	var status string
	var attempts int
	err := s.pool.QueryRow(ctx,
		`UPDATE pick_jobs
		 SET attempts = attempts + 1,
		     last_error = $3,
		     status = CASE WHEN attempts + 1 <= $4 THEN 'queued' ELSE 'failed' END,
		     run_at = CASE WHEN attempts + 1 <= $4 THEN $5 ELSE run_at END,
		     locked_at = NULL, lock_owner = NULL, updated_at = $5
		 WHERE id = $1 AND status = 'running' AND lock_owner = $2
		 RETURNING status, attempts`,
		id, lockOwner, summary, maxRetries, now,
	).Scan(&status, &attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", 0, ErrNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("record job failure: %w", err)
	}
	return status, attempts, nil
}

func (s *PostgresStore) QueueStats(ctx context.Context, now time.Time) (*QueueStats, error) {
	var stats QueueStats
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE status = 'queued'),
		        COUNT(*) FILTER (WHERE status = 'queued' AND run_at <= $1),
		        COUNT(*) FILTER (WHERE status = 'running'),
		        COUNT(*) FILTER (WHERE status = 'done'),
		        COUNT(*) FILTER (WHERE status = 'failed'),
		        MIN(run_at) FILTER (WHERE status = 'queued')
		 FROM pick_jobs`, now,
	).Scan(&stats.Total, &stats.Queued, &stats.Eligible, &stats.Running,
		&stats.Done, &stats.Failed, &stats.NextRunAt)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	return &stats, nil
}

// --- Picks ---

const pickColumns = `id, game_id, result, market, emoji, selection, line, odds_format, odds,
	p_est, p_implied, ev, confidence, stake_u, high_prob_low_payout, is_value,
	reasons_json, risks_json, triggers_json, missing_data_json, as_of_utc, notes,
	raw_ai_json, created_at, updated_at`

func scanPick(row pgx.Row) (*models.Pick, error) {
	var p models.Pick
	var reasons, risks, triggers, missing string
	err := row.Scan(&p.ID, &p.GameID, &p.Result, &p.Market, &p.Emoji, &p.Selection,
		&p.Line, &p.OddsFormat, &p.Odds, &p.PEst, &p.PImplied, &p.EV, &p.Confidence,
		&p.StakeUnits, &p.HighProbLowPayout, &p.IsValue,
		&reasons, &risks, &triggers, &missing,
		&p.AsOf, &p.Notes, &p.RawResponse, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	for _, col := range []struct {
		raw string
		dst *[]string
	}{
		{reasons, &p.Reasons}, {risks, &p.Risks}, {triggers, &p.Triggers}, {missing, &p.MissingData},
	} {
		if err := json.Unmarshal([]byte(col.raw), col.dst); err != nil {
			return nil, fmt.Errorf("decode pick list column: %w", err)
		}
	}
	return &p, nil
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode pick list column: %w", err)
	}
	return string(b), nil
}

func (s *PostgresStore) UpsertPick(ctx context.Context, pick *models.Pick) error {
	lists := make([]string, 4)
	for i, items := range [][]string{pick.Reasons, pick.Risks, pick.Triggers, pick.MissingData} {
		v, err := marshalList(items)
		if err != nil {
			return err
		}
		lists[i] = v
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO picks (game_id, result, market, emoji, selection, line, odds_format, odds,
		   p_est, p_implied, ev, confidence, stake_u, high_prob_low_payout, is_value,
		   reasons_json, risks_json, triggers_json, missing_data_json, as_of_utc, notes,
		   raw_ai_json, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		   $16, $17, $18, $19, $20, $21, $22, $23, $23)
		 ON CONFLICT (game_id) DO UPDATE SET
		   result = EXCLUDED.result, market = EXCLUDED.market, emoji = EXCLUDED.emoji,
		   selection = EXCLUDED.selection, line = EXCLUDED.line,
		   odds_format = EXCLUDED.odds_format, odds = EXCLUDED.odds,
		   p_est = EXCLUDED.p_est, p_implied = EXCLUDED.p_implied, ev = EXCLUDED.ev,
		   confidence = EXCLUDED.confidence, stake_u = EXCLUDED.stake_u,
		   high_prob_low_payout = EXCLUDED.high_prob_low_payout, is_value = EXCLUDED.is_value,
		   reasons_json = EXCLUDED.reasons_json, risks_json = EXCLUDED.risks_json,
		   triggers_json = EXCLUDED.triggers_json, missing_data_json = EXCLUDED.missing_data_json,
		   as_of_utc = EXCLUDED.as_of_utc, notes = EXCLUDED.notes,
		   raw_ai_json = EXCLUDED.raw_ai_json, updated_at = EXCLUDED.updated_at
		 RETURNING id, created_at`,
		pick.GameID, pick.Result, pick.Market, pick.Emoji, pick.Selection, pick.Line,
		pick.OddsFormat, pick.Odds, pick.PEst, pick.PImplied, pick.EV, pick.Confidence,
		pick.StakeUnits, pick.HighProbLowPayout, pick.IsValue,
		lists[0], lists[1], lists[2], lists[3],
		pick.AsOf, pick.Notes, pick.RawResponse, time.Now().UTC(),
	).Scan(&pick.ID, &pick.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert pick: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetPick(ctx context.Context, id int64) (*models.Pick, error) {
	p, err := scanPick(s.pool.QueryRow(ctx,
		`SELECT `+pickColumns+` FROM picks WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pick: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) GetPickByGameID(ctx context.Context, gameID int64) (*models.Pick, error) {
	p, err := scanPick(s.pool.QueryRow(ctx,
		`SELECT `+pickColumns+` FROM picks WHERE game_id = $1`, gameID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get pick by game: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPicks(ctx context.Context, filter PickFilter) ([]*models.Pick, int, error) {
	conditions := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.Result != "" {
		conditions = append(conditions, fmt.Sprintf("result = $%d", argIdx))
		args = append(args, filter.Result)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM picks WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count picks: %w", err)
	}

	limit, offset := normalizePage(filter.Page, filter.Limit)
	dataQuery := fmt.Sprintf(
		`SELECT `+pickColumns+` FROM picks WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		where, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := s.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list picks: %w", err)
	}
	defer rows.Close()

	var picks []*models.Pick
	for rows.Next() {
		p, err := scanPick(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, total, rows.Err()
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		key.ID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE deleted_at IS NULL ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// normalizePage clamps pagination parameters and converts them to LIMIT/OFFSET.
func normalizePage(page, limit int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}

// Compile-time check that PostgresStore implements Store.
var _ Store = (*PostgresStore)(nil)
