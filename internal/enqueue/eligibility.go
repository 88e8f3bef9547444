// Package enqueue decides which games are due for analysis and creates their
// pick jobs.
package enqueue

import (
	"time"

	"github.com/edgestake/pickwire/pkg/models"
)

// PregameWindow is how far before a game's start time a job may be queued.
// Eligibility runs from (start - PregameWindow) through start, both inclusive.
const PregameWindow = 2 * time.Hour

// Eligible reports whether a game can be queued for analysis at now. Games
// without a start time and games that are no longer scheduled are never
// eligible.
func Eligible(g *models.Game, now time.Time, window time.Duration) bool {
	if g.StartTime == nil {
		return false
	}
	if g.Status != models.GameStatusScheduled {
		return false
	}
	start := g.StartTime.UTC()
	windowStart := start.Add(-window)
	if now.Before(windowStart) || now.After(start) {
		return false
	}
	return true
}
