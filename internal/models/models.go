package models

import (
	"time"

	"github.com/google/uuid"
)

type Player struct {
	ID          int       `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	GamesPlayed int       `json:"games_played" db:"games_played"`
	GamesWon    int       `json:"games_won" db:"games_won"`
	GamesLost   int       `json:"games_lost" db:"games_lost"`
	GamesDrawn  int       `json:"games_drawn" db:"games_drawn"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type GameStatus string

const (
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed"
	GameStatusForfeited GameStatus = "forfeited"
	GameStatusDraw      GameStatus = "draw"
)

// Outcome is the result of a finished game from the human's point of view.
type Outcome string

const (
	OutcomeHumanWin Outcome = "human_win"
	OutcomeAIWin    Outcome = "ai_win"
	OutcomeDraw     Outcome = "draw"
	OutcomeForfeit  Outcome = "forfeit"
)

// GameState is one human-vs-AI session held in memory by the server.
type GameState struct {
	GameID      uuid.UUID  `json:"game_id"`
	Username    string     `json:"username"`
	Board       Board      `json:"board"`
	CurrentTurn Piece      `json:"current_turn"`
	Status      GameStatus `json:"status"`
	Outcome     *Outcome   `json:"outcome,omitempty"`
	MoveCount   int        `json:"move_count"`
	HumanFirst  bool       `json:"human_first"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type DisconnectedPlayer struct {
	Username       string    `json:"username"`
	GameID         uuid.UUID `json:"game_id"`
	DisconnectedAt time.Time `json:"disconnected_at"`
}

type LeaderboardEntry struct {
	ID          int       `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	GamesWon    int       `json:"games_won" db:"games_won"`
	GamesPlayed int       `json:"games_played" db:"games_played"`
	WinRate     float64   `json:"win_rate" db:"win_rate"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type ColumnStat struct {
	Piece  Piece `json:"piece"`
	Column int   `json:"column"`
	Count  int   `json:"count"`
}

type WSMessageType string

const (
	WSStartGame     WSMessageType = "start-game"
	WSMakeMove      WSMessageType = "make-move"
	WSReconnectGame WSMessageType = "reconnect-game"
	WSGameStarted   WSMessageType = "game-started"
	WSMoveAccepted  WSMessageType = "move-accepted"
	WSOpponentMoved WSMessageType = "opponent-moved"
	WSGameOver      WSMessageType = "game-over"
	WSGameRestored  WSMessageType = "game-restored"
	WSError         WSMessageType = "error"
)

type WSMessage struct {
	Type    WSMessageType `json:"type"`
	Payload interface{}   `json:"payload"`
}

type StartGamePayload struct {
	Username   string `json:"username" binding:"required,min=3,max=50"`
	HumanFirst *bool  `json:"human_first,omitempty"`
}

type MakeMovePayload struct {
	GameID uuid.UUID `json:"game_id"`
	Column int       `json:"column"`
}

type ReconnectPayload struct {
	Username string    `json:"username" binding:"required"`
	GameID   uuid.UUID `json:"game_id" binding:"required"`
}

type MoveRequest struct {
	Column *int `json:"column" binding:"required"`
}

type GameStartedPayload struct {
	GameID      uuid.UUID    `json:"game_id"`
	Board       Board        `json:"board"`
	CurrentTurn Piece        `json:"current_turn"`
	HumanFirst  bool         `json:"human_first"`
	OpeningMove *MovePayload `json:"opening_move,omitempty"`
}

type MovePayload struct {
	Column     int   `json:"column"`
	Row        int   `json:"row"`
	Piece      Piece `json:"piece"`
	NextTurn   Piece `json:"next_turn"`
	Board      Board `json:"board"`
	MoveNumber int   `json:"move_number"`
}

type GameOverPayload struct {
	Outcome  Outcome `json:"outcome"`
	Board    Board   `json:"board"`
	Duration int     `json:"duration_seconds"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type KafkaEventType string

const (
	EventGameStarted   KafkaEventType = "GAME_STARTED"
	EventMoveMade      KafkaEventType = "MOVE_MADE"
	EventGameCompleted KafkaEventType = "GAME_COMPLETED"
)

type GameStartedEvent struct {
	Type       KafkaEventType `json:"type"`
	GameID     uuid.UUID      `json:"game_id"`
	Username   string         `json:"username"`
	HumanFirst bool           `json:"human_first"`
	Timestamp  time.Time      `json:"timestamp"`
}

type MoveMadeEvent struct {
	Type       KafkaEventType `json:"type"`
	GameID     uuid.UUID      `json:"game_id"`
	Username   string         `json:"username"`
	Piece      Piece          `json:"piece"`
	Column     int            `json:"column"`
	Row        int            `json:"row"`
	MoveNumber int            `json:"move_number"`
	Timestamp  time.Time      `json:"timestamp"`
}

type GameCompletedEvent struct {
	Type       KafkaEventType `json:"type"`
	GameID     uuid.UUID      `json:"game_id"`
	Username   string         `json:"username"`
	Outcome    Outcome        `json:"outcome"`
	TotalMoves int            `json:"total_moves"`
	Duration   int            `json:"duration_seconds"`
	Timestamp  time.Time      `json:"timestamp"`
}
