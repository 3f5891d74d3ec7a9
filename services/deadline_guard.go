package services

import (
	"time"

	"nfl-pickem-go/models"
)

// DeadlineGuard decides whether a pick may be created or modified for a game.
// It is the single source of truth for lock state; no other component derives
// its own lock logic.
type DeadlineGuard struct{}

// NewDeadlineGuard creates a deadline guard
func NewDeadlineGuard() *DeadlineGuard {
	return &DeadlineGuard{}
}

// CanSubmit returns true iff the game has not kicked off and is still in the
// scheduled state. Status is authoritative: a game that has moved to any
// in-progress, final, postponed or cancelled state is locked even if the
// clock says kickoff has not been reached yet.
func (g *DeadlineGuard) CanSubmit(now time.Time, game *models.Game) bool {
	return game.Status == models.GameStatusScheduled && now.Before(game.Kickoff)
}
