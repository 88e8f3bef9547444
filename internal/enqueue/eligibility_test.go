package enqueue_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edgestake/pickwire/internal/enqueue"
	"github.com/edgestake/pickwire/pkg/models"
)

func gameStartingAt(start time.Time) *models.Game {
	return &models.Game{
		ID:        1,
		Provider:  "espn",
		Sport:     "basketball",
		League:    "NBA",
		StartTime: &start,
		Status:    models.GameStatusScheduled,
		HomeTeam:  "Boston Celtics",
		AwayTeam:  "Miami Heat",
	}
}

func TestEligible_InsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	g := gameStartingAt(now.Add(time.Hour))

	assert.True(t, enqueue.Eligible(g, now, enqueue.PregameWindow))
}

func TestEligible_WindowBoundsInclusive(t *testing.T) {
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	g := gameStartingAt(start)

	// Exactly at window open (start - 2h) and exactly at start both count.
	assert.True(t, enqueue.Eligible(g, start.Add(-enqueue.PregameWindow), enqueue.PregameWindow))
	assert.True(t, enqueue.Eligible(g, start, enqueue.PregameWindow))

	// One second either side does not.
	assert.False(t, enqueue.Eligible(g, start.Add(-enqueue.PregameWindow).Add(-time.Second), enqueue.PregameWindow))
	assert.False(t, enqueue.Eligible(g, start.Add(time.Second), enqueue.PregameWindow))
}

func TestEligible_NilStartTime(t *testing.T) {
	g := gameStartingAt(time.Now())
	g.StartTime = nil

	assert.False(t, enqueue.Eligible(g, time.Now().UTC(), enqueue.PregameWindow))
}

func TestEligible_NonScheduledStatuses(t *testing.T) {
	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	for _, status := range []string{
		models.GameStatusInProgress,
		models.GameStatusFinal,
		models.GameStatusPostponed,
		models.GameStatusCanceled,
	} {
		g := gameStartingAt(now.Add(time.Hour))
		g.Status = status
		assert.False(t, enqueue.Eligible(g, now, enqueue.PregameWindow), "status %s", status)
	}
}
