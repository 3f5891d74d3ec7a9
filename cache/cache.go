// Package cache provides the best-effort read-view cache used in front of the
// pick store. The engine is correct without it: every cached value can be
// recomputed from storage, so implementations swallow their own failures and
// simply report misses.
package cache

import (
	"fmt"
	"time"

	"nfl-pickem-go/interfaces"
	"nfl-pickem-go/logging"
)

// Config controls cache construction
type Config struct {
	Enabled    bool
	TTL        time.Duration
	MaxEntries int
}

// New selects a cache implementation from the configuration. Business logic
// always talks to interfaces.Cache; whether caching is on is decided once,
// here, rather than checked throughout the services.
func New(cfg Config) interfaces.Cache {
	if !cfg.Enabled || cfg.TTL <= 0 {
		logging.WithPrefix("Cache").Info("Caching disabled")
		return noopCache{}
	}
	logging.WithPrefix("Cache").Infof("In-memory cache enabled: ttl=%s maxEntries=%d", cfg.TTL, cfg.MaxEntries)
	return newMemoryCache(cfg.TTL, cfg.MaxEntries)
}

// noopCache misses every read and drops every write
type noopCache struct{}

func (noopCache) Get(string) (interface{}, bool) { return nil, false }
func (noopCache) Set(string, interface{})        {}
func (noopCache) InvalidatePattern(string)       {}

// Cache key layout. Invalidation relies on these prefixes, so every component
// that reads or writes a view goes through the builders below.

// UserPicksKey identifies one user's picks view for a week
func UserPicksKey(season, week int, userID string) string {
	return fmt.Sprintf("user_picks:%d:%d:%s", season, week, userID)
}

// UserPicksWeekPattern matches every user's picks view for a week
func UserPicksWeekPattern(season, week int) string {
	return fmt.Sprintf("user_picks:%d:%d:*", season, week)
}

// WeekGamesKey identifies the weekly games view
func WeekGamesKey(season, week int) string {
	return fmt.Sprintf("week_games:%d:%d", season, week)
}

// LeaderboardKey identifies one computed leaderboard
func LeaderboardKey(season int, week *int, scopeKey string) string {
	if week != nil {
		return fmt.Sprintf("leaderboard:%d:%d:%s", season, *week, scopeKey)
	}
	return fmt.Sprintf("leaderboard:%d:all:%s", season, scopeKey)
}

// LeaderboardPattern matches every leaderboard for a season, all scopes and
// week filters; scoring any week can move season-wide standings
func LeaderboardPattern(season int) string {
	return fmt.Sprintf("leaderboard:%d:*", season)
}
