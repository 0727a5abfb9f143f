package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"connect4/internal/models"
	"connect4/pkg/logger"

	"go.uber.org/zap"
)

var ErrStoreUnavailable = errors.New("statistics store is not configured")

// StatsStore is the aggregate storage used by analytics and the
// leaderboard. *database.Database implements it.
type StatsStore interface {
	RecordResult(ctx context.Context, username string, outcome models.Outcome) error
	IncrementColumn(ctx context.Context, piece models.Piece, column int) error
	GetColumnStats(ctx context.Context) ([]models.ColumnStat, error)
	GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error)
	GetPlayerByUsername(ctx context.Context, username string) (*models.Player, error)
	Totals(ctx context.Context) (played, humanWins, aiWins, draws int, err error)
}

type AnalyticsService struct {
	store StatsStore
}

type GameAnalytics struct {
	TotalGames   int     `json:"total_games"`
	HumanWins    int     `json:"human_wins"`
	AIWins       int     `json:"ai_wins"`
	Draws        int     `json:"draws"`
	AIWinRate    float64 `json:"ai_win_rate"`
	HumanWinRate float64 `json:"human_win_rate"`
	DrawRate     float64 `json:"draw_rate"`
}

type PopularColumn struct {
	Column     int     `json:"column"`
	Human      int     `json:"human"`
	AI         int     `json:"ai"`
	Percentage float64 `json:"percentage"`
}

func NewAnalyticsService(store StatsStore) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// HandleMessage decodes one raw event and applies it.
func (as *AnalyticsService) HandleMessage(ctx context.Context, value []byte) error {
	var baseEvent struct {
		Type models.KafkaEventType `json:"type"`
	}
	if err := json.Unmarshal(value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	switch baseEvent.Type {
	case models.EventGameStarted:
		var event models.GameStartedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", baseEvent.Type, err)
		}
		as.ProcessGameStarted(event)
		return nil
	case models.EventMoveMade:
		var event models.MoveMadeEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", baseEvent.Type, err)
		}
		return as.ProcessMoveMade(ctx, event)
	case models.EventGameCompleted:
		var event models.GameCompletedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return fmt.Errorf("failed to unmarshal %s: %w", baseEvent.Type, err)
		}
		return as.ProcessGameCompleted(ctx, event)
	default:
		logger.Log.Warn("Ignoring unknown event type", zap.String("type", string(baseEvent.Type)))
		return nil
	}
}

func (as *AnalyticsService) ProcessGameStarted(event models.GameStartedEvent) {
	logger.Log.Info("Processed GAME_STARTED event",
		zap.String("game_id", event.GameID.String()),
		zap.String("username", event.Username),
		zap.Bool("human_first", event.HumanFirst),
	)
}

func (as *AnalyticsService) ProcessMoveMade(ctx context.Context, event models.MoveMadeEvent) error {
	if event.Column < 0 || event.Column >= models.Cols {
		return fmt.Errorf("move event has column %d out of range", event.Column)
	}
	if err := as.store.IncrementColumn(ctx, event.Piece, event.Column); err != nil {
		return err
	}
	logger.Log.Debug("Processed MOVE_MADE event", zap.String("game_id", event.GameID.String()))
	return nil
}

func (as *AnalyticsService) ProcessGameCompleted(ctx context.Context, event models.GameCompletedEvent) error {
	if err := as.store.RecordResult(ctx, event.Username, event.Outcome); err != nil {
		return err
	}
	logger.Log.Info("Processed GAME_COMPLETED event",
		zap.String("game_id", event.GameID.String()),
		zap.String("outcome", string(event.Outcome)),
	)
	return nil
}

func (as *AnalyticsService) GetGameStatistics(ctx context.Context) (*GameAnalytics, error) {
	if as == nil || as.store == nil {
		return nil, ErrStoreUnavailable
	}
	played, humanWins, aiWins, draws, err := as.store.Totals(ctx)
	if err != nil {
		return nil, err
	}
	stats := &GameAnalytics{
		TotalGames: played,
		HumanWins:  humanWins,
		AIWins:     aiWins,
		Draws:      draws,
	}
	if played > 0 {
		stats.HumanWinRate = float64(humanWins) / float64(played) * 100
		stats.AIWinRate = float64(aiWins) / float64(played) * 100
		stats.DrawRate = float64(draws) / float64(played) * 100
	}
	return stats, nil
}

// GetPopularColumns returns one entry per column, in column order.
func (as *AnalyticsService) GetPopularColumns(ctx context.Context) ([]PopularColumn, error) {
	if as == nil || as.store == nil {
		return nil, ErrStoreUnavailable
	}
	stats, err := as.store.GetColumnStats(ctx)
	if err != nil {
		return nil, err
	}

	columns := make([]PopularColumn, models.Cols)
	total := 0
	for col := range columns {
		columns[col].Column = col
	}
	for _, s := range stats {
		if s.Column < 0 || s.Column >= models.Cols {
			continue
		}
		switch s.Piece {
		case models.Human:
			columns[s.Column].Human += s.Count
		case models.AI:
			columns[s.Column].AI += s.Count
		}
		total += s.Count
	}
	if total > 0 {
		for i := range columns {
			columns[i].Percentage = float64(columns[i].Human+columns[i].AI) * 100 / float64(total)
		}
	}
	return columns, nil
}
