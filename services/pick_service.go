package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nfl-pickem-go/cache"
	"nfl-pickem-go/interfaces"
	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// MaxBulkSubmissions is the largest batch SubmitBulkPicks accepts
const MaxBulkSubmissions = 20

// PickSubmission is one entry of a bulk submission
type PickSubmission struct {
	GameID          string `json:"game_id"`
	TeamID          string `json:"team_id"`
	TiebreakerScore *int   `json:"tiebreaker_score,omitempty"`
}

// PickService validates and persists pick submissions. All lock decisions go
// through the DeadlineGuard; all writes go through the store's atomic upsert.
type PickService struct {
	pickStore interfaces.PickStore
	gameRepo  interfaces.GameRepository
	guard     *DeadlineGuard
	cache     interfaces.Cache
	logger    *logging.Logger
	now       func() time.Time
}

// NewPickService creates a new pick submission service
func NewPickService(pickStore interfaces.PickStore, gameRepo interfaces.GameRepository, guard *DeadlineGuard, resultCache interfaces.Cache) *PickService {
	return &PickService{
		pickStore: pickStore,
		gameRepo:  gameRepo,
		guard:     guard,
		cache:     resultCache,
		logger:    logging.WithPrefix("PickService"),
		now:       time.Now,
	}
}

// SetClock overrides the service clock; tests use this to cross deadlines
// without sleeping
func (s *PickService) SetClock(now func() time.Time) {
	s.now = now
}

// SubmitPick creates or overwrites the caller's pick for a game.
// The write is a single atomic upsert keyed on (user, game): resubmitting
// before kickoff replaces the selection in place, and concurrent submissions
// for the same key serialize at the store, last commit wins.
func (s *PickService) SubmitPick(ctx context.Context, userID, gameID, teamID string, tiebreaker *int) (*models.Pick, error) {
	game, err := s.gameRepo.FindByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	if game == nil {
		return nil, &NotFoundError{Resource: "game", IDs: []string{gameID}}
	}

	if !s.guard.CanSubmit(s.now(), game) {
		return nil, &LockedError{GameIDs: []string{gameID}}
	}
	if !game.HasTeam(teamID) {
		return nil, &InvalidArgumentError{
			Reason: fmt.Sprintf("team %s is not playing in game %s (%s)", teamID, gameID, game.Description()),
		}
	}

	pick := models.NewPick(userID, game, teamID, tiebreaker, s.now())
	saved, err := s.pickStore.UpsertOne(ctx, pick)
	if err != nil {
		return nil, fmt.Errorf("failed to save pick: %w", err)
	}

	s.logger.Infof("User %s picked %s for game %s (season %d week %d)",
		userID, teamID, gameID, game.Season, game.Week)

	// Invalidate only after the store write committed
	s.invalidateSubmissionViews(userID, map[weekKey]bool{{game.Season, game.Week}: true})

	return saved, nil
}

// SubmitBulkPicks submits up to MaxBulkSubmissions picks in one transaction.
// Validation is all-or-nothing: one locked or unknown game rejects the whole
// batch, and the store applies either every upsert or none. Partial
// application would silently corrupt the user's view of their week.
func (s *PickService) SubmitBulkPicks(ctx context.Context, userID string, submissions []PickSubmission) ([]*models.Pick, error) {
	if len(submissions) == 0 {
		return nil, &InvalidArgumentError{Reason: "bulk submission requires at least one pick"}
	}
	if len(submissions) > MaxBulkSubmissions {
		return nil, &InvalidArgumentError{
			Reason: fmt.Sprintf("bulk submission limited to %d picks, got %d", MaxBulkSubmissions, len(submissions)),
		}
	}

	now := s.now()
	var missing, locked []string
	games := make([]*models.Game, 0, len(submissions))

	for _, sub := range submissions {
		game, err := s.gameRepo.FindByID(ctx, sub.GameID)
		if err != nil {
			return nil, fmt.Errorf("failed to load game %s: %w", sub.GameID, err)
		}
		if game == nil {
			missing = append(missing, sub.GameID)
			continue
		}
		if !s.guard.CanSubmit(now, game) {
			locked = append(locked, sub.GameID)
		}
		games = append(games, game)
	}

	if len(missing) > 0 {
		return nil, &NotFoundError{Resource: "game", IDs: missing}
	}
	if len(locked) > 0 {
		return nil, &LockedError{GameIDs: locked}
	}

	picks := make([]*models.Pick, 0, len(submissions))
	weeks := make(map[weekKey]bool)
	gameIdx := 0
	for _, sub := range submissions {
		game := games[gameIdx]
		gameIdx++
		if !game.HasTeam(sub.TeamID) {
			return nil, &InvalidArgumentError{
				Reason: fmt.Sprintf("team %s is not playing in game %s (%s)", sub.TeamID, sub.GameID, game.Description()),
			}
		}
		picks = append(picks, models.NewPick(userID, game, sub.TeamID, sub.TiebreakerScore, now))
		weeks[weekKey{game.Season, game.Week}] = true
	}

	saved, err := s.pickStore.UpsertMany(ctx, picks)
	if err != nil {
		return nil, fmt.Errorf("failed to save bulk picks: %w", err)
	}

	s.logger.Infof("User %s submitted %d picks in bulk", userID, len(saved))
	s.invalidateSubmissionViews(userID, weeks)

	return saved, nil
}

// GetUserPicksForWeek returns a user's picks for a week, served from cache
// when a fresh view exists
func (s *PickService) GetUserPicksForWeek(ctx context.Context, userID string, season, week int) ([]*models.Pick, error) {
	key := cache.UserPicksKey(season, week, userID)
	if v, ok := s.cache.Get(key); ok {
		if picks, ok := v.([]*models.Pick); ok {
			return picks, nil
		}
	}

	picks, err := s.pickStore.ListByUser(ctx, userID, season, &week)
	if err != nil {
		return nil, fmt.Errorf("failed to get user picks: %w", err)
	}

	s.cache.Set(key, picks)
	return picks, nil
}

// GetWeekGames returns the games of a week, served from cache when fresh
func (s *PickService) GetWeekGames(ctx context.Context, season, week int) ([]*models.Game, error) {
	key := cache.WeekGamesKey(season, week)
	if v, ok := s.cache.Get(key); ok {
		if games, ok := v.([]*models.Game); ok {
			return games, nil
		}
	}

	games, err := s.gameRepo.FindByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to get week games: %w", err)
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].Kickoff.Equal(games[j].Kickoff) {
			return games[i].Kickoff.Before(games[j].Kickoff)
		}
		return games[i].ID < games[j].ID
	})

	s.cache.Set(key, games)
	return games, nil
}

type weekKey struct {
	season int
	week   int
}

func (s *PickService) invalidateSubmissionViews(userID string, weeks map[weekKey]bool) {
	for wk := range weeks {
		s.cache.InvalidatePattern(cache.UserPicksKey(wk.season, wk.week, userID))
		s.cache.InvalidatePattern(cache.WeekGamesKey(wk.season, wk.week))
	}
}
