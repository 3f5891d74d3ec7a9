package models

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// WeeklyScoreSummary aggregates one user's picks for one week
type WeeklyScoreSummary struct {
	Week         int `json:"week"`
	CorrectPicks int `json:"correct_picks"`
	TotalPicks   int `json:"total_picks"`
	Points       int `json:"points"`
}

// LeaderboardEntry is one ranked row of standings
type LeaderboardEntry struct {
	UserID       string               `json:"user_id"`
	Username     string               `json:"username"`
	TotalScore   int                  `json:"total_score"`
	CorrectPicks int                  `json:"correct_picks"`
	TotalPicks   int                  `json:"total_picks"`
	Weekly       []WeeklyScoreSummary `json:"weekly"`
	Rank         int                  `json:"rank"`
}

// WinPercentage returns correct/total; zero when the user has no picks
func (e *LeaderboardEntry) WinPercentage() float64 {
	if e.TotalPicks == 0 {
		return 0
	}
	return float64(e.CorrectPicks) / float64(e.TotalPicks)
}

// LeaderboardScope selects which users standings are computed over.
// A nil user set means all users; an explicit set means the members of a
// league, resolved by the league layer before calling the engine.
type LeaderboardScope struct {
	userIDs []string
}

// GlobalScope covers every user with at least one pick
func GlobalScope() LeaderboardScope {
	return LeaderboardScope{}
}

// LeagueScope covers exactly the given member set, including members
// who have not picked yet
func LeagueScope(userIDs []string) LeaderboardScope {
	ids := make([]string, len(userIDs))
	copy(ids, userIDs)
	sort.Strings(ids)
	return LeaderboardScope{userIDs: ids}
}

// IsGlobal returns true for the all-users scope
func (s LeaderboardScope) IsGlobal() bool {
	return s.userIDs == nil
}

// UserIDs returns the explicit member set, nil for the global scope
func (s LeaderboardScope) UserIDs() []string {
	return s.userIDs
}

// Includes reports whether the given user falls inside the scope
func (s LeaderboardScope) Includes(userID string) bool {
	if s.userIDs == nil {
		return true
	}
	i := sort.SearchStrings(s.userIDs, userID)
	return i < len(s.userIDs) && s.userIDs[i] == userID
}

// CacheKey returns a short stable token identifying the scope
func (s LeaderboardScope) CacheKey() string {
	if s.userIDs == nil {
		return "all"
	}
	h := fnv.New64a()
	h.Write([]byte(strings.Join(s.userIDs, ",")))
	return fmt.Sprintf("league-%x", h.Sum64())
}

// ScoreWeekResult reports what a scoring pass did
type ScoreWeekResult struct {
	Processed int `json:"processed"`
	Updated   int `json:"updated"`
}
