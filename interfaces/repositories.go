package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nfl-pickem-go/models"
)

// GameRepository is the read-only view of games supplied by the schedule feed.
// Lookups return (nil, nil) when no game matches.
type GameRepository interface {
	FindByID(ctx context.Context, gameID string) (*models.Game, error)
	FindByWeek(ctx context.Context, season, week int) ([]*models.Game, error)
}

// PickStore is the durable storage for picks.
// UpsertOne must be a single atomic create-or-update keyed on
// (user_id, game_id) — not a read-then-write — so concurrent submissions for
// the same key serialize at the store and cannot produce duplicate rows.
// UpsertMany applies all upserts in one transaction: all or none.
type PickStore interface {
	UpsertOne(ctx context.Context, pick *models.Pick) (*models.Pick, error)
	UpsertMany(ctx context.Context, picks []*models.Pick) ([]*models.Pick, error)
	ListByUser(ctx context.Context, userID string, season int, week *int) ([]*models.Pick, error)
	ListByGame(ctx context.Context, gameID string) ([]*models.Pick, error)
	ListByWeek(ctx context.Context, season, week int) ([]*models.Pick, error)
	ListBySeason(ctx context.Context, season int) ([]*models.Pick, error)
	UpdateScoring(ctx context.Context, pickID primitive.ObjectID, isCorrect *bool, points int) error
}

// UserRepository resolves display names for standings
type UserRepository interface {
	GetAllUsers(ctx context.Context) ([]models.User, error)
}

// Cache is a best-effort read-view cache. Implementations must never surface
// failures to callers: a miss is always a safe answer. InvalidatePattern
// accepts exact keys or a trailing-* prefix pattern.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	InvalidatePattern(pattern string)
}
