// Package models contains shared data models used across the pickwire codebase.
package models

import "context"

// Pick result classifications produced by the reasoning service.
const (
	ResultBet   = "BET"
	ResultLean  = "LEAN"
	ResultNoBet = "NO_BET"
)

// ReasoningClient is the interface to the external reasoning service.
// Never call the OpenAI client directly; always inject this interface.
type ReasoningClient interface {
	// RequestPick asks the reasoning service for a structured pick. It returns
	// the parsed result plus the raw upstream response body for audit.
	RequestPick(ctx context.Context, req PickRequest, snap SettingsSnapshot) (*PickResult, string, error)
}

// PickRequest is the caller-supplied analysis payload sent to the reasoning
// service alongside the fixed system instructions.
type PickRequest struct {
	Sport       string       `json:"sport"`
	League      string       `json:"league"`
	HomeTeam    string       `json:"home_team"`
	AwayTeam    string       `json:"away_team"`
	StartTime   *string      `json:"start_time_utc"`
	Odds        *RequestOdds `json:"odds"`
	AllowTotals bool         `json:"allow_totals"`
	AsOf        string       `json:"as_of_utc"`
	Sources     []string     `json:"sources"`
}

// RequestOdds carries pre-match pricing when available. A nil value means the
// game could not be priced and any returned pick must be coerced to NO_BET.
type RequestOdds struct {
	Format    string             `json:"format"`
	Markets   map[string]float64 `json:"markets"`
	Book      string             `json:"book,omitempty"`
	FetchedAt string             `json:"fetched_at,omitempty"`
}

// PickResult is the structured output the reasoning service must conform to.
// Field shapes match the strict output schema sent with every request.
type PickResult struct {
	Result            string   `json:"result"`
	Market            *string  `json:"market"`
	Emoji             string   `json:"emoji"`
	Selection         *string  `json:"selection"`
	Line              *float64 `json:"line"`
	OddsFormat        *string  `json:"odds_format"`
	Odds              *float64 `json:"odds"`
	PEst              float64  `json:"p_est"`
	PImplied          *float64 `json:"p_implied"`
	EV                *float64 `json:"ev"`
	Confidence        int      `json:"confidence"`
	StakeUnits        float64  `json:"stake_u"`
	HighProbLowPayout bool     `json:"high_prob_low_payout"`
	IsValue           bool     `json:"is_value"`
	Reasons           []string `json:"reasons"`
	Risks             []string `json:"risks"`
	Triggers          []string `json:"triggers"`
	MissingData       []string `json:"missing_data"`
	AsOf              string   `json:"as_of_utc"`
	Notes             string   `json:"notes"`
}

// CoerceNoOdds forces the result to the NO_BET classification with zero stake
// and records "odds" as missing data. Applied whenever the request payload had
// no pricing, regardless of what the service returned: the system never stakes
// on a pick it cannot price.
func (r *PickResult) CoerceNoOdds() {
	for _, m := range r.MissingData {
		if m == "odds" {
			r.Result = ResultNoBet
			r.StakeUnits = 0
			r.IsValue = false
			return
		}
	}
	r.MissingData = append(r.MissingData, "odds")
	r.Result = ResultNoBet
	r.StakeUnits = 0
	r.IsValue = false
}
