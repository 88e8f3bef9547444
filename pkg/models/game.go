package models

import "time"

// Game lifecycle statuses as reported by the ingestion pipeline.
const (
	GameStatusScheduled  = "scheduled"
	GameStatusInProgress = "in_progress"
	GameStatusFinal      = "final"
	GameStatusPostponed  = "postponed"
	GameStatusCanceled   = "canceled"
)

// Game is an upcoming or finished sporting event owned by the ingestion
// pipeline. The scheduler only reads games; it never writes them.
type Game struct {
	ID              int64      `db:"id"                json:"id"`
	Provider        string     `db:"provider"          json:"provider"`
	ProviderEventID string     `db:"provider_event_id" json:"provider_event_id"`
	Sport           string     `db:"sport"             json:"sport"`
	League          string     `db:"league"            json:"league"`
	StartTime       *time.Time `db:"start_time_utc"    json:"start_time_utc,omitempty"`
	Status          string     `db:"status"            json:"status"`
	HomeTeam        string     `db:"home_team"         json:"home_team"`
	AwayTeam        string     `db:"away_team"         json:"away_team"`
	HomeScore       *int       `db:"home_score"        json:"home_score,omitempty"`
	AwayScore       *int       `db:"away_score"        json:"away_score,omitempty"`
	CreatedAt       time.Time  `db:"created_at"        json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"        json:"updated_at"`
}
