package services

import (
	"context"
	"fmt"
	"sync"

	"nfl-pickem-go/cache"
	"nfl-pickem-go/interfaces"
	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// ScoringSystem awards points for a resolved pick. The engine's shape —
// per-game winner resolution, then per-pick correctness, then a point
// award — stays fixed; alternate systems swap only this formula.
type ScoringSystem interface {
	PointsForPick(pick *models.Pick, correct bool) int
}

// StandardScoring awards one point per correct pick
type StandardScoring struct{}

// PointsForPick implements ScoringSystem
func (StandardScoring) PointsForPick(_ *models.Pick, correct bool) int {
	if correct {
		return 1
	}
	return 0
}

// ScoringService resolves pick results once games are final.
// ScoreWeek is idempotent: rescoring an unchanged week writes nothing, and
// rescoring after a score correction rewrites only the picks that changed.
type ScoringService struct {
	pickStore interfaces.PickStore
	gameRepo  interfaces.GameRepository
	cache     interfaces.Cache
	system    ScoringSystem
	logger    *logging.Logger

	mu        sync.Mutex
	weekLocks map[weekKey]*sync.Mutex
}

// NewScoringService creates a scoring service using the standard point system
func NewScoringService(pickStore interfaces.PickStore, gameRepo interfaces.GameRepository, resultCache interfaces.Cache) *ScoringService {
	return &ScoringService{
		pickStore: pickStore,
		gameRepo:  gameRepo,
		cache:     resultCache,
		system:    StandardScoring{},
		logger:    logging.WithPrefix("ScoringService"),
		weekLocks: make(map[weekKey]*sync.Mutex),
	}
}

// SetScoringSystem swaps the point formula. Must be called before the first
// ScoreWeek; mixing systems mid-season would corrupt standings.
func (s *ScoringService) SetScoringSystem(system ScoringSystem) {
	s.system = system
}

// ScoreWeek resolves every pick on the week's final games.
//
// Games that are not final are skipped entirely rather than scored as
// incorrect, so an unresolved game never masquerades as a wrong pick. Tie
// games get no winner: their picks keep a nil result and zero points.
//
// Each pick's update is its own durable write; a storage failure aborts the
// remaining loop but loses nothing already written, and re-invoking resumes
// where it left off. The week lock is in-process only — deployments running
// several instances must serialize the scoring trigger externally.
func (s *ScoringService) ScoreWeek(ctx context.Context, season, week int) (models.ScoreWeekResult, error) {
	lock := s.weekLock(weekKey{season, week})
	lock.Lock()
	defer lock.Unlock()

	var result models.ScoreWeekResult

	games, err := s.gameRepo.FindByWeek(ctx, season, week)
	if err != nil {
		return result, fmt.Errorf("failed to load games for season %d week %d: %w", season, week, err)
	}

	finalGames := 0
	for _, game := range games {
		if !game.IsFinal() {
			continue
		}
		finalGames++

		if err := s.scoreGame(ctx, game, &result); err != nil {
			s.invalidateScoringViews(season, week)
			return result, err
		}
	}

	if finalGames == 0 {
		s.logger.Infof("No final games for season %d week %d, nothing to score", season, week)
		return result, nil
	}

	// Scoring touches many users at once, so the whole week's read views go
	s.invalidateScoringViews(season, week)

	s.logger.Infof("Scored season %d week %d: %d final games, %d picks processed, %d updated",
		season, week, finalGames, result.Processed, result.Updated)

	return result, nil
}

func (s *ScoringService) scoreGame(ctx context.Context, game *models.Game, result *models.ScoreWeekResult) error {
	winner, hasWinner := game.Winner()

	picks, err := s.pickStore.ListByGame(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to load picks for game %s: %w", game.ID, err)
	}

	for _, pick := range picks {
		result.Processed++

		var isCorrect *bool
		points := 0
		if hasWinner {
			correct := pick.SelectedTeamID == winner
			isCorrect = &correct
			points = s.system.PointsForPick(pick, correct)
		}

		if pick.ScoringEquals(isCorrect, points) {
			continue
		}

		if err := s.pickStore.UpdateScoring(ctx, pick.ID, isCorrect, points); err != nil {
			return fmt.Errorf("failed to update scoring for pick %s: %w", pick.ID.Hex(), err)
		}
		result.Updated++
	}

	if !hasWinner && game.IsFinal() {
		s.logger.Infof("Game %s (%s) ended tied, %d picks left unscored", game.ID, game.Description(), len(picks))
	}

	return nil
}

func (s *ScoringService) invalidateScoringViews(season, week int) {
	s.cache.InvalidatePattern(cache.LeaderboardPattern(season))
	s.cache.InvalidatePattern(cache.UserPicksWeekPattern(season, week))
}

func (s *ScoringService) weekLock(key weekKey) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lock, ok := s.weekLocks[key]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	s.weekLocks[key] = lock
	return lock
}
