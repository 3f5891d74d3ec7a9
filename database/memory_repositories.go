package database

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nfl-pickem-go/models"
)

// In-memory implementations of the storage interfaces. They back unit tests
// and the demo mode that main falls into when MongoDB is unreachable, and
// honor the same contracts as the Mongo repositories: one pick per
// (user, game), all-or-nothing bulk writes, stable list ordering.

// MemoryGameRepository is an in-memory interfaces.GameRepository
type MemoryGameRepository struct {
	mu    sync.RWMutex
	games map[string]models.Game
}

// NewMemoryGameRepository creates an empty in-memory game repository
func NewMemoryGameRepository() *MemoryGameRepository {
	return &MemoryGameRepository{games: make(map[string]models.Game)}
}

// PutGame stores or replaces a game
func (r *MemoryGameRepository) PutGame(game *models.Game) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.games[game.ID] = *game
}

// FindByID returns a game by ID, (nil, nil) when absent
func (r *MemoryGameRepository) FindByID(_ context.Context, gameID string) (*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	game, ok := r.games[gameID]
	if !ok {
		return nil, nil
	}
	return &game, nil
}

// FindByWeek returns all games for a season/week ordered by kickoff
func (r *MemoryGameRepository) FindByWeek(_ context.Context, season, week int) ([]*models.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var games []*models.Game
	for _, game := range r.games {
		if game.Season == season && game.Week == week {
			g := game
			games = append(games, &g)
		}
	}
	sort.Slice(games, func(i, j int) bool {
		if !games[i].Kickoff.Equal(games[j].Kickoff) {
			return games[i].Kickoff.Before(games[j].Kickoff)
		}
		return games[i].ID < games[j].ID
	})
	return games, nil
}

// MemoryPickStore is an in-memory interfaces.PickStore
type MemoryPickStore struct {
	mu    sync.Mutex
	picks map[string]models.Pick // keyed user_id|game_id
}

// NewMemoryPickStore creates an empty in-memory pick store
func NewMemoryPickStore() *MemoryPickStore {
	return &MemoryPickStore{picks: make(map[string]models.Pick)}
}

func pickKey(userID, gameID string) string {
	return userID + "|" + gameID
}

// Count returns the number of stored picks
func (s *MemoryPickStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.picks)
}

// UpsertOne creates or overwrites the pick for (user, game) under one lock,
// preserving SubmittedAt and scoring fields on overwrite like the Mongo
// upsert does
func (s *MemoryPickStore) UpsertOne(_ context.Context, pick *models.Pick) (*models.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.upsertLocked(pick)
	return &saved, nil
}

func (s *MemoryPickStore) upsertLocked(pick *models.Pick) models.Pick {
	key := pickKey(pick.UserID, pick.GameID)

	if existing, ok := s.picks[key]; ok {
		existing.Season = pick.Season
		existing.Week = pick.Week
		existing.SelectedTeamID = pick.SelectedTeamID
		existing.TiebreakerScore = pick.TiebreakerScore
		existing.UpdatedAt = pick.UpdatedAt
		s.picks[key] = existing
		return existing
	}

	stored := *pick
	stored.ID = primitive.NewObjectID()
	stored.IsCorrect = nil
	stored.PointsAwarded = 0
	s.picks[key] = stored
	return stored
}

// UpsertMany applies all upserts under a single lock: all or none
func (s *MemoryPickStore) UpsertMany(_ context.Context, picks []*models.Pick) ([]*models.Pick, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]*models.Pick, 0, len(picks))
	for _, pick := range picks {
		p := s.upsertLocked(pick)
		saved = append(saved, &p)
	}
	return saved, nil
}

// ListByUser returns a user's picks for a season, one week when week is set
func (s *MemoryPickStore) ListByUser(_ context.Context, userID string, season int, week *int) ([]*models.Pick, error) {
	return s.list(func(p *models.Pick) bool {
		return p.UserID == userID && p.Season == season && (week == nil || p.Week == *week)
	}), nil
}

// ListByGame returns all picks for a game
func (s *MemoryPickStore) ListByGame(_ context.Context, gameID string) ([]*models.Pick, error) {
	return s.list(func(p *models.Pick) bool { return p.GameID == gameID }), nil
}

// ListByWeek returns all picks for a season/week
func (s *MemoryPickStore) ListByWeek(_ context.Context, season, week int) ([]*models.Pick, error) {
	return s.list(func(p *models.Pick) bool { return p.Season == season && p.Week == week }), nil
}

// ListBySeason returns all picks for a season
func (s *MemoryPickStore) ListBySeason(_ context.Context, season int) ([]*models.Pick, error) {
	return s.list(func(p *models.Pick) bool { return p.Season == season }), nil
}

func (s *MemoryPickStore) list(match func(*models.Pick) bool) []*models.Pick {
	s.mu.Lock()
	defer s.mu.Unlock()

	var picks []*models.Pick
	for _, pick := range s.picks {
		p := pick
		if match(&p) {
			picks = append(picks, &p)
		}
	}
	sort.Slice(picks, func(i, j int) bool {
		a, b := picks[i], picks[j]
		if a.Week != b.Week {
			return a.Week < b.Week
		}
		if a.GameID != b.GameID {
			return a.GameID < b.GameID
		}
		return a.UserID < b.UserID
	})
	return picks
}

// UpdateScoring sets the scoring result of one pick
func (s *MemoryPickStore) UpdateScoring(_ context.Context, pickID primitive.ObjectID, isCorrect *bool, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, pick := range s.picks {
		if pick.ID == pickID {
			pick.IsCorrect = isCorrect
			pick.PointsAwarded = points
			s.picks[key] = pick
			return nil
		}
	}
	return fmt.Errorf("pick %s not found", pickID.Hex())
}

// MemoryUserRepository is an in-memory interfaces.UserRepository
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

// NewMemoryUserRepository creates a user repository seeded with the given users
func NewMemoryUserRepository(users ...models.User) *MemoryUserRepository {
	repo := &MemoryUserRepository{users: append([]models.User(nil), users...)}
	sort.Slice(repo.users, func(i, j int) bool { return repo.users[i].ID < repo.users[j].ID })
	return repo
}

// GetAllUsers returns the directory ordered by ID
func (r *MemoryUserRepository) GetAllUsers(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.User(nil), r.users...), nil
}
