package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"nfl-pickem-go/cache"
	"nfl-pickem-go/database"
	"nfl-pickem-go/interfaces"
	"nfl-pickem-go/models"
)

const testSeason = 2025

// testEnv wires the services against in-memory repositories with a
// controllable clock. The cache is disabled by default; tests that exercise
// cache behavior build their own enabled cache.
type testEnv struct {
	games *database.MemoryGameRepository
	picks *database.MemoryPickStore
	users *database.MemoryUserRepository
	cache interfaces.Cache
	now   time.Time

	pickService        *PickService
	scoringService     *ScoringService
	leaderboardService *LeaderboardService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		games: database.NewMemoryGameRepository(),
		picks: database.NewMemoryPickStore(),
		users: database.NewMemoryUserRepository(
			models.User{ID: "u1", Name: "Alice"},
			models.User{ID: "u2", Name: "Bob"},
			models.User{ID: "u3", Name: "Carol"},
		),
		cache: cache.New(cache.Config{Enabled: false}),
		now:   time.Date(2025, time.September, 7, 10, 0, 0, 0, time.UTC),
	}
	env.buildServices()
	return env
}

func newTestEnvWithCache(c interfaces.Cache) *testEnv {
	env := newTestEnv()
	env.cache = c
	env.buildServices()
	return env
}

func (e *testEnv) buildServices() {
	e.pickService = NewPickService(e.picks, e.games, NewDeadlineGuard(), e.cache)
	e.pickService.SetClock(func() time.Time { return e.now })
	e.scoringService = NewScoringService(e.picks, e.games, e.cache)
	e.leaderboardService = NewLeaderboardService(e.picks, e.users, e.cache)
}

// advance moves the test clock forward
func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

// addGame registers a scheduled game kicking off at now+kickoffIn
func (e *testEnv) addGame(id string, week int, away, home string, kickoffIn time.Duration) *models.Game {
	game := &models.Game{
		ID:      id,
		Season:  testSeason,
		Week:    week,
		Away:    away,
		Home:    home,
		Kickoff: e.now.Add(kickoffIn),
		Status:  models.GameStatusScheduled,
	}
	e.games.PutGame(game)
	return game
}

// finishGame marks a game final with the given score
func (e *testEnv) finishGame(t *testing.T, id string, awayScore, homeScore int) {
	t.Helper()
	game, err := e.games.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, game)

	game.Status = models.GameStatusFinal
	game.AwayScore = &awayScore
	game.HomeScore = &homeScore
	e.games.PutGame(game)
}

// startGame marks a game in progress
func (e *testEnv) startGame(t *testing.T, id string) {
	t.Helper()
	game, err := e.games.FindByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, game)

	game.Status = models.GameStatusInProgress
	e.games.PutGame(game)
}

// seedScoredPick writes a pick directly to the store, optionally with a
// scoring result, bypassing submission validation
func (e *testEnv) seedScoredPick(t *testing.T, userID, gameID string, week int, isCorrect *bool, points int) {
	t.Helper()
	game := &models.Game{ID: gameID, Season: testSeason, Week: week, Away: "AWY", Home: "HOM"}
	pick := models.NewPick(userID, game, game.Home, nil, e.now)

	saved, err := e.picks.UpsertOne(context.Background(), pick)
	require.NoError(t, err)

	if isCorrect != nil || points != 0 {
		require.NoError(t, e.picks.UpdateScoring(context.Background(), saved.ID, isCorrect, points))
	}
}

func intPtr(i int) *int    { return &i }
func boolPtr(b bool) *bool { return &b }
