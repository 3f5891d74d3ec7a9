package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/singleflight"

	"nfl-pickem-go/cache"
	"nfl-pickem-go/interfaces"
	"nfl-pickem-go/logging"
	"nfl-pickem-go/models"
)

// LeaderboardService aggregates scored picks into ranked standings.
// Output ordering is a strict total order, so repeated builds over unchanged
// data are byte-identical; concurrent identical builds collapse into one
// computation via singleflight.
type LeaderboardService struct {
	pickStore interfaces.PickStore
	userRepo  interfaces.UserRepository
	cache     interfaces.Cache
	logger    *logging.Logger
	group     singleflight.Group
}

// NewLeaderboardService creates a leaderboard service
func NewLeaderboardService(pickStore interfaces.PickStore, userRepo interfaces.UserRepository, resultCache interfaces.Cache) *LeaderboardService {
	return &LeaderboardService{
		pickStore: pickStore,
		userRepo:  userRepo,
		cache:     resultCache,
		logger:    logging.WithPrefix("LeaderboardService"),
	}
}

// BuildLeaderboard computes ranked standings for the scope, filtered to one
// week when week is non-nil. An empty scope yields an empty list.
func (s *LeaderboardService) BuildLeaderboard(ctx context.Context, scope models.LeaderboardScope, season int, week *int) ([]models.LeaderboardEntry, error) {
	key := cache.LeaderboardKey(season, week, scope.CacheKey())
	if v, ok := s.cache.Get(key); ok {
		if entries, ok := v.([]models.LeaderboardEntry); ok {
			return entries, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		entries, err := s.build(ctx, scope, season, week)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]models.LeaderboardEntry), nil
}

func (s *LeaderboardService) build(ctx context.Context, scope models.LeaderboardScope, season int, week *int) ([]models.LeaderboardEntry, error) {
	var picks []*models.Pick
	var err error
	if week != nil {
		picks, err = s.pickStore.ListByWeek(ctx, season, *week)
	} else {
		picks, err = s.pickStore.ListBySeason(ctx, season)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load picks for leaderboard: %w", err)
	}

	// Group picks by user, then by week within each user
	byUser := make(map[string]map[int][]*models.Pick)

	// An explicit league scope seeds every member so that members without
	// picks still appear in the standings (ranked last by the sort rules)
	for _, userID := range scope.UserIDs() {
		byUser[userID] = make(map[int][]*models.Pick)
	}

	for _, pick := range picks {
		if !scope.Includes(pick.UserID) {
			continue
		}
		if byUser[pick.UserID] == nil {
			byUser[pick.UserID] = make(map[int][]*models.Pick)
		}
		byUser[pick.UserID][pick.Week] = append(byUser[pick.UserID][pick.Week], pick)
	}

	usernames, err := s.usernames(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LeaderboardEntry, 0, len(byUser))
	for userID, byWeek := range byUser {
		entry := models.LeaderboardEntry{
			UserID:   userID,
			Username: usernames[userID],
		}

		weeks := make([]int, 0, len(byWeek))
		for w := range byWeek {
			weeks = append(weeks, w)
		}
		sort.Ints(weeks)

		for _, w := range weeks {
			summary := models.WeeklyScoreSummary{Week: w}
			for _, pick := range byWeek[w] {
				summary.TotalPicks++
				if pick.IsCorrect != nil && *pick.IsCorrect {
					summary.CorrectPicks++
				}
				summary.Points += pick.PointsAwarded
			}
			entry.Weekly = append(entry.Weekly, summary)
			entry.TotalScore += summary.Points
			entry.CorrectPicks += summary.CorrectPicks
			entry.TotalPicks += summary.TotalPicks
		}

		entries = append(entries, entry)
	}

	sortEntries(entries)
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.logger.Debugf("Built leaderboard: season=%d scope=%s entries=%d", season, scope.CacheKey(), len(entries))

	return entries, nil
}

// sortEntries orders by total score descending, then win percentage
// descending with zero-pick users last, then user ID ascending. The last key
// makes the order strict: no two entries ever compare equal.
func sortEntries(entries []models.LeaderboardEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := &entries[i], &entries[j]
		if a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}

		aHasPicks := a.TotalPicks > 0
		bHasPicks := b.TotalPicks > 0
		if aHasPicks != bHasPicks {
			return aHasPicks
		}
		if aHasPicks {
			// Compare correct/total as cross products to avoid float equality
			left := int64(a.CorrectPicks) * int64(b.TotalPicks)
			right := int64(b.CorrectPicks) * int64(a.TotalPicks)
			if left != right {
				return left > right
			}
		}

		return a.UserID < b.UserID
	})
}

func (s *LeaderboardService) usernames(ctx context.Context) (map[string]string, error) {
	users, err := s.userRepo.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Name
	}
	return names, nil
}
