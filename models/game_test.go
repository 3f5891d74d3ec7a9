package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameWinner(t *testing.T) {
	score := func(away, home int) (*int, *int) { return &away, &home }

	tests := []struct {
		name       string
		status     GameStatus
		away, home *int
		wantTeam   string
		wantOK     bool
	}{
		{name: "home win", status: GameStatusFinal, wantTeam: "KC", wantOK: true},
		{name: "away win", status: GameStatusFinal, wantTeam: "DET", wantOK: true},
		{name: "overtime final", status: GameStatusFinalOT, wantTeam: "KC", wantOK: true},
		{name: "tie", status: GameStatusFinal},
		{name: "in progress", status: GameStatusInProgress},
		{name: "scheduled without scores", status: GameStatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game := &Game{ID: "g1", Away: "DET", Home: "KC", Status: tt.status}
			switch tt.name {
			case "home win", "overtime final":
				game.AwayScore, game.HomeScore = score(14, 21)
			case "away win":
				game.AwayScore, game.HomeScore = score(24, 21)
			case "tie", "in progress":
				game.AwayScore, game.HomeScore = score(21, 21)
			}

			team, ok := game.Winner()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantTeam, team)
		})
	}
}

func TestGameHasTeam(t *testing.T) {
	game := &Game{Away: "DET", Home: "KC"}
	assert.True(t, game.HasTeam("DET"))
	assert.True(t, game.HasTeam("KC"))
	assert.False(t, game.HasTeam("SEA"))
	assert.False(t, game.HasTeam(""))
}

func TestGameIsFinal(t *testing.T) {
	assert.True(t, (&Game{Status: GameStatusFinal}).IsFinal())
	assert.True(t, (&Game{Status: GameStatusFinalOT}).IsFinal())
	assert.False(t, (&Game{Status: GameStatusScheduled}).IsFinal())
	assert.False(t, (&Game{Status: GameStatusInProgress}).IsFinal())
	assert.False(t, (&Game{Status: GameStatusPostponed}).IsFinal())
}
