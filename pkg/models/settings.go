package models

import "time"

// Settings is the single mutable row of operator-tunable parameters.
type Settings struct {
	ID                 int       `db:"id"                  json:"id"`
	OpenAIAPIKey       *string   `db:"openai_api_key"      json:"-"`
	Model              string    `db:"openai_model"        json:"openai_model"`
	ReasoningEffort    string    `db:"reasoning_effort"    json:"reasoning_effort"`
	PicksEnabled       bool      `db:"picks_enabled"       json:"picks_enabled"`
	Concurrency        int       `db:"concurrency"         json:"concurrency"`
	PollSeconds        int       `db:"poll_seconds"        json:"poll_seconds"`
	MaxRetries         int       `db:"max_retries"         json:"max_retries"`
	AllowTotalsDefault bool      `db:"allow_totals"        json:"allow_totals_default"`
	UpdatedAt          time.Time `db:"updated_at"          json:"updated_at"`
}

// SettingsSnapshot is an immutable copy of Settings taken once per scheduling
// cycle. Passing it by value keeps a cycle unaffected by concurrent edits; the
// API credential is already usable as-is (the settings collaborator owns any
// at-rest protection).
type SettingsSnapshot struct {
	APIKey             string
	Model              string
	ReasoningEffort    string
	PicksEnabled       bool
	Concurrency        int
	PollInterval       time.Duration
	MaxRetries         int
	AllowTotalsDefault bool
}

// Snapshot copies the mutable settings row into an immutable per-cycle value.
func (s *Settings) Snapshot() SettingsSnapshot {
	var key string
	if s.OpenAIAPIKey != nil {
		key = *s.OpenAIAPIKey
	}
	return SettingsSnapshot{
		APIKey:             key,
		Model:              s.Model,
		ReasoningEffort:    s.ReasoningEffort,
		PicksEnabled:       s.PicksEnabled,
		Concurrency:        s.Concurrency,
		PollInterval:       time.Duration(s.PollSeconds) * time.Second,
		MaxRetries:         s.MaxRetries,
		AllowTotalsDefault: s.AllowTotalsDefault,
	}
}

// DefaultSettings returns the seed row created on first access.
func DefaultSettings() *Settings {
	return &Settings{
		ID:                 1,
		Model:              "gpt-5",
		ReasoningEffort:    "high",
		PicksEnabled:       true,
		Concurrency:        2,
		PollSeconds:        30,
		MaxRetries:         2,
		AllowTotalsDefault: false,
		UpdatedAt:          time.Now().UTC(),
	}
}
