package services

import (
	"context"

	"connect4/internal/models"
)

type LeaderboardService struct {
	store StatsStore
}

// NewLeaderboardService accepts a nil store; every call then fails with
// ErrStoreUnavailable.
func NewLeaderboardService(store StatsStore) *LeaderboardService {
	return &LeaderboardService{store: store}
}

func (ls *LeaderboardService) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if ls.store == nil {
		return nil, ErrStoreUnavailable
	}
	return ls.store.GetLeaderboard(ctx, limit)
}

func (ls *LeaderboardService) GetPlayerStats(ctx context.Context, username string) (*models.Player, error) {
	if ls.store == nil {
		return nil, ErrStoreUnavailable
	}
	return ls.store.GetPlayerByUsername(ctx, username)
}
