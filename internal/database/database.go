package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"connect4/internal/config"
	"connect4/internal/models"
	"connect4/pkg/logger"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Database keeps aggregate counters only: per-player results and per-column
// move counts. Individual games are never stored.
type Database struct {
	db *sql.DB
}

var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id           SERIAL PRIMARY KEY,
	username     TEXT NOT NULL UNIQUE,
	games_played INTEGER NOT NULL DEFAULT 0,
	games_won    INTEGER NOT NULL DEFAULT 0,
	games_lost   INTEGER NOT NULL DEFAULT 0,
	games_drawn  INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS column_stats (
	piece        INTEGER NOT NULL,
	column_index INTEGER NOT NULL,
	move_count   INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (piece, column_index)
);
`

func New(cfg *config.Config) (*Database, error) {
	dsn, err := cfg.GetDatabaseDSN()
	if err != nil {
		return nil, err
	}
	db, err := openDB("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Log.Info("Database connected successfully")
	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

func (d *Database) Ping() error {
	return d.db.Ping()
}

func (d *Database) EnsureSchema(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (d *Database) GetPlayerByUsername(ctx context.Context, username string) (*models.Player, error) {
	var player models.Player
	query := `SELECT id, username, games_played, games_won, games_lost, games_drawn, created_at, updated_at
		FROM players WHERE username = $1`
	err := d.db.QueryRowContext(ctx, query, username).Scan(
		&player.ID, &player.Username, &player.GamesPlayed, &player.GamesWon,
		&player.GamesLost, &player.GamesDrawn, &player.CreatedAt, &player.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &player, nil
}

// RecordResult adds one finished game to the player's counters, creating
// the player on first sight. A forfeit counts as a loss.
func (d *Database) RecordResult(ctx context.Context, username string, outcome models.Outcome) error {
	var won, lost, drawn int
	switch outcome {
	case models.OutcomeHumanWin:
		won = 1
	case models.OutcomeAIWin, models.OutcomeForfeit:
		lost = 1
	case models.OutcomeDraw:
		drawn = 1
	default:
		return fmt.Errorf("unknown outcome %q", outcome)
	}

	query := `
		INSERT INTO players (username, games_played, games_won, games_lost, games_drawn)
		VALUES ($1, 1, $2, $3, $4)
		ON CONFLICT (username) DO UPDATE SET
			games_played = players.games_played + 1,
			games_won    = players.games_won + EXCLUDED.games_won,
			games_lost   = players.games_lost + EXCLUDED.games_lost,
			games_drawn  = players.games_drawn + EXCLUDED.games_drawn,
			updated_at   = CURRENT_TIMESTAMP
	`
	if _, err := d.db.ExecContext(ctx, query, username, won, lost, drawn); err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}
	logger.Log.Info("Result recorded", zap.String("username", username), zap.String("outcome", string(outcome)))
	return nil
}

func (d *Database) IncrementColumn(ctx context.Context, piece models.Piece, column int) error {
	query := `
		INSERT INTO column_stats (piece, column_index, move_count) VALUES ($1, $2, 1)
		ON CONFLICT (piece, column_index) DO UPDATE SET move_count = column_stats.move_count + 1
	`
	if _, err := d.db.ExecContext(ctx, query, int(piece), column); err != nil {
		return fmt.Errorf("failed to increment column stats: %w", err)
	}
	return nil
}

func (d *Database) GetColumnStats(ctx context.Context) ([]models.ColumnStat, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT piece, column_index, move_count FROM column_stats ORDER BY piece, column_index`)
	if err != nil {
		return nil, fmt.Errorf("failed to get column stats: %w", err)
	}
	defer rows.Close()

	var stats []models.ColumnStat
	for rows.Next() {
		var (
			stat  models.ColumnStat
			piece int
		)
		if err := rows.Scan(&piece, &stat.Column, &stat.Count); err != nil {
			return nil, fmt.Errorf("failed to scan column stat: %w", err)
		}
		stat.Piece = models.Piece(piece)
		stats = append(stats, stat)
	}
	return stats, rows.Err()
}

func (d *Database) GetLeaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT id, username, games_won, games_played,
			CASE WHEN games_played > 0 THEN games_won * 100.0 / games_played ELSE 0 END AS win_rate,
			created_at
		FROM players
		ORDER BY games_won DESC, win_rate DESC, username
		LIMIT $1
	`
	rows, err := d.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []models.LeaderboardEntry
	for rows.Next() {
		var entry models.LeaderboardEntry
		err := rows.Scan(&entry.ID, &entry.Username, &entry.GamesWon, &entry.GamesPlayed, &entry.WinRate, &entry.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Totals returns summed outcome counters across all players.
func (d *Database) Totals(ctx context.Context) (played, humanWins, aiWins, draws int, err error) {
	err = d.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(games_played), 0), COALESCE(SUM(games_won), 0),
			COALESCE(SUM(games_lost), 0), COALESCE(SUM(games_drawn), 0)
		FROM players
	`).Scan(&played, &humanWins, &aiWins, &draws)
	if err != nil {
		err = fmt.Errorf("failed to get totals: %w", err)
	}
	return
}
