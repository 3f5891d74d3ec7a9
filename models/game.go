package models

import (
	"fmt"
	"time"
)

// GameStatus represents the current state of a game
type GameStatus string

const (
	GameStatusScheduled  GameStatus = "scheduled"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusHalftime   GameStatus = "halftime"
	GameStatusFinal      GameStatus = "final"
	GameStatusFinalOT    GameStatus = "final_ot"
	GameStatusPostponed  GameStatus = "postponed"
	GameStatusCancelled  GameStatus = "cancelled"
)

// Game represents an NFL game as supplied by the schedule feed.
// Scores are nil until the game reaches a final status.
type Game struct {
	ID        string     `json:"id" bson:"id"`
	Season    int        `json:"season" bson:"season"`
	Week      int        `json:"week" bson:"week"`
	Away      string     `json:"away" bson:"away"`
	Home      string     `json:"home" bson:"home"`
	Kickoff   time.Time  `json:"kickoff" bson:"kickoff"`
	Status    GameStatus `json:"status" bson:"status"`
	AwayScore *int       `json:"away_score,omitempty" bson:"away_score,omitempty"`
	HomeScore *int       `json:"home_score,omitempty" bson:"home_score,omitempty"`
}

// IsFinal returns true if the game finished in regulation or overtime
func (g *Game) IsFinal() bool {
	return g.Status == GameStatusFinal || g.Status == GameStatusFinalOT
}

// HasTeam returns true if teamID is one of the two teams playing
func (g *Game) HasTeam(teamID string) bool {
	return teamID == g.Home || teamID == g.Away
}

// Winner returns the winning team ID for a final game.
// The second return value is false for tie games and games that are not final.
func (g *Game) Winner() (string, bool) {
	if !g.IsFinal() || g.HomeScore == nil || g.AwayScore == nil {
		return "", false
	}
	if *g.HomeScore > *g.AwayScore {
		return g.Home, true
	}
	if *g.AwayScore > *g.HomeScore {
		return g.Away, true
	}
	return "", false // tie
}

// Description returns a short matchup string for logs
func (g *Game) Description() string {
	return fmt.Sprintf("%s @ %s", g.Away, g.Home)
}
