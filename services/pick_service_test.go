package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nfl-pickem-go/cache"
)

func TestSubmitPickResubmissionKeepsSingleRow(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	ctx := context.Background()

	_, err := env.pickService.SubmitPick(ctx, "u1", "g1", "KC", nil)
	require.NoError(t, err)

	_, err = env.pickService.SubmitPick(ctx, "u1", "g1", "DET", nil)
	require.NoError(t, err)

	pick, err := env.pickService.SubmitPick(ctx, "u1", "g1", "KC", intPtr(44))
	require.NoError(t, err)

	assert.Equal(t, 1, env.picks.Count(), "resubmissions must not create extra rows")
	assert.Equal(t, "KC", pick.SelectedTeamID)
	require.NotNil(t, pick.TiebreakerScore)
	assert.Equal(t, 44, *pick.TiebreakerScore)
	assert.Equal(t, 1, pick.Week)
	assert.Nil(t, pick.IsCorrect)
	assert.Zero(t, pick.PointsAwarded)
}

func TestSubmitPickDifferentUsersDoNotInterfere(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	ctx := context.Background()

	_, err := env.pickService.SubmitPick(ctx, "u1", "g1", "KC", nil)
	require.NoError(t, err)
	_, err = env.pickService.SubmitPick(ctx, "u2", "g1", "DET", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, env.picks.Count())
}

func TestSubmitPickUnknownGame(t *testing.T) {
	env := newTestEnv()

	_, err := env.pickService.SubmitPick(context.Background(), "u1", "missing", "KC", nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestSubmitPickInvalidTeam(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)

	_, err := env.pickService.SubmitPick(context.Background(), "u1", "g1", "SEA", nil)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Zero(t, env.picks.Count())
}

func TestSubmitPickLockedAfterKickoff(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	env.advance(2 * time.Hour)

	_, err := env.pickService.SubmitPick(context.Background(), "u1", "g1", "KC", nil)
	require.Error(t, err)
	assert.True(t, IsLocked(err))
	assert.Zero(t, env.picks.Count(), "locked submission must not mutate storage")
}

func TestSubmitPickLockedByStatus(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	// Kickoff is still an hour away by the clock, but the feed already moved
	// the game in progress
	env.startGame(t, "g1")

	_, err := env.pickService.SubmitPick(context.Background(), "u1", "g1", "KC", nil)
	require.Error(t, err)
	assert.True(t, IsLocked(err))
	assert.Zero(t, env.picks.Count())
}

func TestSubmitBulkPicksSuccess(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	env.addGame("g2", 1, "BUF", "MIA", 2*time.Hour)

	picks, err := env.pickService.SubmitBulkPicks(context.Background(), "u1", []PickSubmission{
		{GameID: "g1", TeamID: "KC", TiebreakerScore: intPtr(41)},
		{GameID: "g2", TeamID: "BUF"},
	})
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, 2, env.picks.Count())
}

func TestSubmitBulkPicksRejectsWholeBatchOnLockedGame(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	locked := env.addGame("g2", 1, "BUF", "MIA", 30*time.Minute)
	env.advance(45 * time.Minute) // past g2's kickoff, before g1's

	_, err := env.pickService.SubmitBulkPicks(context.Background(), "u1", []PickSubmission{
		{GameID: "g1", TeamID: "KC"},
		{GameID: "g2", TeamID: "MIA"},
	})
	require.Error(t, err)
	assert.True(t, IsLocked(err))
	assert.Contains(t, err.Error(), locked.ID)
	assert.Zero(t, env.picks.Count(), "no pick of a rejected batch may be written")
}

func TestSubmitBulkPicksNamesMissingGames(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)

	_, err := env.pickService.SubmitBulkPicks(context.Background(), "u1", []PickSubmission{
		{GameID: "g1", TeamID: "KC"},
		{GameID: "nope1", TeamID: "KC"},
		{GameID: "nope2", TeamID: "KC"},
	})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "nope1")
	assert.Contains(t, err.Error(), "nope2")
	assert.Zero(t, env.picks.Count())
}

func TestSubmitBulkPicksInvalidTeamRejectsBatch(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	env.addGame("g2", 1, "BUF", "MIA", time.Hour)

	_, err := env.pickService.SubmitBulkPicks(context.Background(), "u1", []PickSubmission{
		{GameID: "g1", TeamID: "KC"},
		{GameID: "g2", TeamID: "SEA"},
	})
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Zero(t, env.picks.Count())
}

func TestSubmitBulkPicksSizeBoundaries(t *testing.T) {
	env := newTestEnv()
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	ctx := context.Background()

	_, err := env.pickService.SubmitBulkPicks(ctx, "u1", nil)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))

	oversized := make([]PickSubmission, MaxBulkSubmissions+1)
	for i := range oversized {
		oversized[i] = PickSubmission{GameID: "g1", TeamID: "KC"}
	}
	_, err = env.pickService.SubmitBulkPicks(ctx, "u1", oversized)
	require.Error(t, err)
	assert.True(t, IsInvalidArgument(err))
	assert.Zero(t, env.picks.Count())
}

func TestSubmitPickInvalidatesCachedUserPicks(t *testing.T) {
	env := newTestEnvWithCache(cache.New(cache.Config{Enabled: true, TTL: time.Minute, MaxEntries: 100}))
	env.addGame("g1", 1, "DET", "KC", time.Hour)
	env.addGame("g2", 1, "BUF", "MIA", time.Hour)
	ctx := context.Background()

	_, err := env.pickService.SubmitPick(ctx, "u1", "g1", "KC", nil)
	require.NoError(t, err)

	// Warm the cached view, then submit again and expect a fresh view
	picks, err := env.pickService.GetUserPicksForWeek(ctx, "u1", testSeason, 1)
	require.NoError(t, err)
	require.Len(t, picks, 1)

	_, err = env.pickService.SubmitPick(ctx, "u1", "g2", "BUF", nil)
	require.NoError(t, err)

	picks, err = env.pickService.GetUserPicksForWeek(ctx, "u1", testSeason, 1)
	require.NoError(t, err)
	assert.Len(t, picks, 2, "submission must invalidate the cached picks view")
}
