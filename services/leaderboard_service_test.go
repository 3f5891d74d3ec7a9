package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl-pickem-go/models"
)

func TestBuildLeaderboardOrdersByScoreThenWinPctThenUserID(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// u1: 2 points from 2 correct of 3 picks (66.7%)
	env.seedScoredPick(t, "u1", "g1", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u1", "g2", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u1", "g3", 1, boolPtr(false), 0)
	// u2: 2 points from 2 correct of 2 picks (100%) — wins the tiebreak
	env.seedScoredPick(t, "u2", "g1", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u2", "g2", 1, boolPtr(true), 1)
	// u3: 1 point
	env.seedScoredPick(t, "u3", "g1", 1, boolPtr(true), 1)

	entries, err := env.leaderboardService.BuildLeaderboard(ctx, models.GlobalScope(), testSeason, nil)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "u2", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Bob", entries[0].Username)
	assert.Equal(t, "u1", entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "u3", entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestBuildLeaderboardBreaksExactTiesByUserID(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// Identical records: the lexicographically smaller user ID ranks higher
	env.seedScoredPick(t, "u3", "g1", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u3", "g2", 1, boolPtr(false), 0)
	env.seedScoredPick(t, "u1", "g1", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u1", "g2", 1, boolPtr(false), 0)

	entries, err := env.leaderboardService.BuildLeaderboard(ctx, models.GlobalScope(), testSeason, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u1", entries[0].UserID)
	assert.Equal(t, "u3", entries[1].UserID)
}

func TestBuildLeaderboardIsReproducible(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedScoredPick(t, "u2", "g1", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u1", "g1", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u3", "g2", 2, boolPtr(false), 0)

	first, err := env.leaderboardService.BuildLeaderboard(ctx, models.GlobalScope(), testSeason, nil)
	require.NoError(t, err)
	second, err := env.leaderboardService.BuildLeaderboard(ctx, models.GlobalScope(), testSeason, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second, "unchanged data must yield identical ordering")
}

func TestBuildLeaderboardWeekFilter(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedScoredPick(t, "u1", "g1", 1, boolPtr(true), 1)
	env.seedScoredPick(t, "u1", "g9", 2, boolPtr(true), 1)

	week := 1
	entries, err := env.leaderboardService.BuildLeaderboard(ctx, models.GlobalScope(), testSeason, &week)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].TotalScore)
	require.Len(t, entries[0].Weekly, 1)
	assert.Equal(t, 1, entries[0].Weekly[0].Week)

	entries, err = env.leaderboardService.BuildLeaderboard(ctx, models.GlobalScope(), testSeason, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].TotalScore)
	assert.Len(t, entries[0].Weekly, 2)
}

func TestBuildLeaderboardLeagueScope(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.seedScoredPick(t, "u1", "g1", 1, boolPtr(true), 1) // outside the league
	env.seedScoredPick(t, "u2", "g1", 1, boolPtr(true), 1)

	entries, err := env.leaderboardService.BuildLeaderboard(ctx, models.LeagueScope([]string{"u2", "u3"}), testSeason, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "u2", entries[0].UserID)
	// u3 has no picks yet: still listed as a league member, ranked last
	assert.Equal(t, "u3", entries[1].UserID)
	assert.Zero(t, entries[1].TotalPicks)
	assert.Equal(t, 2, entries[1].Rank)

	for _, entry := range entries {
		assert.NotEqual(t, "u1", entry.UserID, "non-members must not appear")
	}
}

func TestBuildLeaderboardEmptyScope(t *testing.T) {
	env := newTestEnv()

	entries, err := env.leaderboardService.BuildLeaderboard(context.Background(), models.LeagueScope(nil), testSeason, nil)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuildLeaderboardZeroPickUsersSortLast(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	// u1 went 0-for-2: zero points, but a defined win percentage of 0
	env.seedScoredPick(t, "u1", "g1", 1, boolPtr(false), 0)
	env.seedScoredPick(t, "u1", "g2", 1, boolPtr(false), 0)

	entries, err := env.leaderboardService.BuildLeaderboard(ctx, models.LeagueScope([]string{"u1", "u2"}), testSeason, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "u1", entries[0].UserID, "a user with picks outranks a user without, at equal score")
	assert.Equal(t, "u2", entries[1].UserID)
}
