package models

import "time"

// Pick is the persisted AI recommendation for a single game. Created or
// overwritten only by the job executor; at most one row exists per game.
type Pick struct {
	ID                int64      `db:"id"                   json:"id"`
	GameID            int64      `db:"game_id"              json:"game_id"`
	Result            string     `db:"result"               json:"result"`
	Market            *string    `db:"market"               json:"market,omitempty"`
	Emoji             string     `db:"emoji"                json:"emoji"`
	Selection         *string    `db:"selection"            json:"selection,omitempty"`
	Line              *float64   `db:"line"                 json:"line,omitempty"`
	OddsFormat        *string    `db:"odds_format"          json:"odds_format,omitempty"`
	Odds              *float64   `db:"odds"                 json:"odds,omitempty"`
	PEst              float64    `db:"p_est"                json:"p_est"`
	PImplied          *float64   `db:"p_implied"            json:"p_implied,omitempty"`
	EV                *float64   `db:"ev"                   json:"ev,omitempty"`
	Confidence        int        `db:"confidence"           json:"confidence"`
	StakeUnits        float64    `db:"stake_u"              json:"stake_u"`
	HighProbLowPayout bool       `db:"high_prob_low_payout" json:"high_prob_low_payout"`
	IsValue           bool       `db:"is_value"             json:"is_value"`
	Reasons           []string   `db:"reasons_json"         json:"reasons"`
	Risks             []string   `db:"risks_json"           json:"risks"`
	Triggers          []string   `db:"triggers_json"        json:"triggers"`
	MissingData       []string   `db:"missing_data_json"    json:"missing_data"`
	AsOf              string     `db:"as_of_utc"            json:"as_of_utc"`
	Notes             string     `db:"notes"                json:"notes"`
	RawResponse       string     `db:"raw_ai_json"          json:"raw_ai_json"`
	CreatedAt         time.Time  `db:"created_at"           json:"created_at"`
	UpdatedAt         *time.Time `db:"updated_at"           json:"updated_at,omitempty"`
}
