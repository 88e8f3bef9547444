package openai

import (
	"context"

	"github.com/edgestake/pickwire/pkg/models"
)

// MockClient satisfies models.ReasoningClient for testing.
type MockClient struct {
	RequestPickFunc func(ctx context.Context, req models.PickRequest, snap models.SettingsSnapshot) (*models.PickResult, string, error)
}

func (m *MockClient) RequestPick(ctx context.Context, req models.PickRequest, snap models.SettingsSnapshot) (*models.PickResult, string, error) {
	if m.RequestPickFunc != nil {
		return m.RequestPickFunc(ctx, req, snap)
	}
	return NewMockResult(), `{"mock":true}`, nil
}

// NewMockClient returns a MockClient that answers every request with a
// plausible LEAN pick.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// NewFailingClient returns a MockClient that always returns the given error.
func NewFailingClient(err error) *MockClient {
	return &MockClient{
		RequestPickFunc: func(_ context.Context, _ models.PickRequest, _ models.SettingsSnapshot) (*models.PickResult, string, error) {
			return nil, "", err
		},
	}
}

// NewMockResult builds a complete pick result suitable as a test fixture.
func NewMockResult() *models.PickResult {
	market := "ML"
	selection := "HOME"
	format := "decimal"
	odds := 1.91
	implied := 0.5236
	ev := 0.05
	return &models.PickResult{
		Result:      models.ResultLean,
		Market:      &market,
		Emoji:       "🤔",
		Selection:   &selection,
		OddsFormat:  &format,
		Odds:        &odds,
		PEst:        0.55,
		PImplied:    &implied,
		EV:          &ev,
		Confidence:  60,
		StakeUnits:  0.5,
		IsValue:     true,
		Reasons:     []string{"home side priced below estimated win probability"},
		Risks:       []string{"limited sample for current form"},
		Triggers:    []string{"confirm starting lineup"},
		MissingData: []string{},
		AsOf:        "2026-01-01T00:00:00Z",
		Notes:       "mock result for testing",
	}
}

var _ models.ReasoningClient = (*MockClient)(nil)
