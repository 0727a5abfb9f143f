package services

import (
	"errors"
	"sync"
	"time"

	"connect4/internal/bot"
	"connect4/internal/models"
	"connect4/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameNotActive = errors.New("game is not active")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrInvalidColumn = errors.New("invalid column")
	ErrColumnFull    = errors.New("invalid move: column is full")
	ErrBoardChanged  = errors.New("board changed while the bot was thinking")
)

// GameService holds the human-vs-AI sessions in memory.
type GameService struct {
	bot         *bot.Bot
	publisher   EventPublisher
	activeGames map[uuid.UUID]*models.GameState
	gamesMutex  sync.RWMutex
	coinFlip    func() bool
}

func NewGameService(b *bot.Bot, publisher EventPublisher) *GameService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &GameService{
		bot:         b,
		publisher:   publisher,
		activeGames: make(map[uuid.UUID]*models.GameState),
		coinFlip:    b.CoinFlip,
	}
}

// StartGame opens a session for username. A nil humanFirst picks the
// starter at random. When the AI starts, its opening move is played before
// returning and reported as the second result.
func (gs *GameService) StartGame(username string, humanFirst *bool) (*models.GameState, *models.MovePayload, error) {
	first := gs.coinFlip()
	if humanFirst != nil {
		first = *humanFirst
	}

	game := &models.GameState{
		GameID:      uuid.New(),
		Username:    username,
		Board:       models.NewBoard(),
		CurrentTurn: models.AI,
		Status:      models.GameStatusActive,
		HumanFirst:  first,
		StartedAt:   time.Now(),
	}
	if first {
		game.CurrentTurn = models.Human
	}

	gs.gamesMutex.Lock()
	gs.activeGames[game.GameID] = game
	gs.gamesMutex.Unlock()

	logger.Log.Info("Game created",
		zap.String("game_id", game.GameID.String()),
		zap.String("username", username),
		zap.Bool("human_first", first),
	)
	gs.publish(func() error {
		return gs.publisher.PublishGameStarted(models.GameStartedEvent{
			Type:       models.EventGameStarted,
			GameID:     game.GameID,
			Username:   username,
			HumanFirst: first,
			Timestamp:  game.StartedAt,
		})
	})

	var opening *models.MovePayload
	if !first {
		move, _, err := gs.MakeBotMove(game.GameID)
		if err != nil {
			return nil, nil, err
		}
		opening = move
	}

	state, err := gs.GetGame(game.GameID)
	if err != nil {
		return nil, nil, err
	}
	return state, opening, nil
}

// GetGame returns a snapshot of the session.
func (gs *GameService) GetGame(gameID uuid.UUID) (*models.GameState, error) {
	gs.gamesMutex.RLock()
	defer gs.gamesMutex.RUnlock()
	game, exists := gs.activeGames[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	snapshot := *game
	return &snapshot, nil
}

// MakeMove plays the human's piece in column.
func (gs *GameService) MakeMove(gameID uuid.UUID, column int) (*models.MovePayload, *models.GameOverPayload, error) {
	gs.gamesMutex.Lock()
	game, exists := gs.activeGames[gameID]
	if !exists {
		gs.gamesMutex.Unlock()
		return nil, nil, ErrGameNotFound
	}
	if game.Status != models.GameStatusActive {
		gs.gamesMutex.Unlock()
		return nil, nil, ErrGameNotActive
	}
	if game.CurrentTurn != models.Human {
		gs.gamesMutex.Unlock()
		return nil, nil, ErrNotYourTurn
	}
	if column < 0 || column >= models.Cols {
		gs.gamesMutex.Unlock()
		return nil, nil, ErrInvalidColumn
	}
	if !game.Board.IsValidLocation(column) {
		gs.gamesMutex.Unlock()
		return nil, nil, ErrColumnFull
	}

	move, over, events := gs.applyMove(game, column, models.Human)
	gs.gamesMutex.Unlock()

	gs.publishAll(events)
	return move, over, nil
}

// MakeBotMove lets the AI reply. The search runs on a copy of the board
// without holding the lock, so other sessions keep moving meanwhile.
func (gs *GameService) MakeBotMove(gameID uuid.UUID) (*models.MovePayload, *models.GameOverPayload, error) {
	gs.gamesMutex.RLock()
	game, exists := gs.activeGames[gameID]
	if !exists {
		gs.gamesMutex.RUnlock()
		return nil, nil, ErrGameNotFound
	}
	if game.Status != models.GameStatusActive {
		gs.gamesMutex.RUnlock()
		return nil, nil, ErrGameNotActive
	}
	if game.CurrentTurn != models.AI {
		gs.gamesMutex.RUnlock()
		return nil, nil, ErrNotYourTurn
	}
	board := game.Board
	moveCount := game.MoveCount
	gs.gamesMutex.RUnlock()

	column := gs.bot.BestMove(board)

	gs.gamesMutex.Lock()
	if game.Status != models.GameStatusActive || game.MoveCount != moveCount {
		gs.gamesMutex.Unlock()
		return nil, nil, ErrBoardChanged
	}
	move, over, events := gs.applyMove(game, column, models.AI)
	gs.gamesMutex.Unlock()

	gs.publishAll(events)
	return move, over, nil
}

// ForfeitGame ends an active game as a loss for the human.
func (gs *GameService) ForfeitGame(gameID uuid.UUID) (*models.GameOverPayload, error) {
	gs.gamesMutex.Lock()
	game, exists := gs.activeGames[gameID]
	if !exists {
		gs.gamesMutex.Unlock()
		return nil, ErrGameNotFound
	}
	if game.Status != models.GameStatusActive {
		gs.gamesMutex.Unlock()
		return nil, ErrGameNotActive
	}
	over, event := gs.finish(game, models.OutcomeForfeit)
	gs.gamesMutex.Unlock()

	gs.publishAll([]interface{}{event})
	return over, nil
}

// PruneFinished drops sessions that ended more than maxAge ago.
func (gs *GameService) PruneFinished(maxAge time.Duration) int {
	gs.gamesMutex.Lock()
	defer gs.gamesMutex.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for id, game := range gs.activeGames {
		if game.CompletedAt != nil && game.CompletedAt.Before(cutoff) {
			delete(gs.activeGames, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Log.Debug("Pruned finished games", zap.Int("count", removed))
	}
	return removed
}

// applyMove must be called with gamesMutex held and a validated column.
func (gs *GameService) applyMove(game *models.GameState, column int, piece models.Piece) (*models.MovePayload, *models.GameOverPayload, []interface{}) {
	row, _ := game.Board.NextOpenRow(column)
	game.Board.DropPiece(column, row, piece)
	game.MoveCount++

	events := []interface{}{models.MoveMadeEvent{
		Type:       models.EventMoveMade,
		GameID:     game.GameID,
		Username:   game.Username,
		Piece:      piece,
		Column:     column,
		Row:        row,
		MoveNumber: game.MoveCount,
		Timestamp:  time.Now(),
	}}

	var over *models.GameOverPayload
	switch {
	case bot.IsWinningMove(game.Board, piece):
		outcome := models.OutcomeHumanWin
		if piece == models.AI {
			outcome = models.OutcomeAIWin
		}
		var event models.GameCompletedEvent
		over, event = gs.finish(game, outcome)
		events = append(events, event)
	case game.Board.IsFull():
		var event models.GameCompletedEvent
		over, event = gs.finish(game, models.OutcomeDraw)
		events = append(events, event)
	default:
		game.CurrentTurn = piece.Opponent()
	}

	move := &models.MovePayload{
		Column:     column,
		Row:        row,
		Piece:      piece,
		NextTurn:   game.CurrentTurn,
		Board:      game.Board,
		MoveNumber: game.MoveCount,
	}
	return move, over, events
}

// finish must be called with gamesMutex held.
func (gs *GameService) finish(game *models.GameState, outcome models.Outcome) (*models.GameOverPayload, models.GameCompletedEvent) {
	completedAt := time.Now()
	game.CompletedAt = &completedAt
	game.Outcome = &outcome
	game.CurrentTurn = models.Empty

	switch outcome {
	case models.OutcomeDraw:
		game.Status = models.GameStatusDraw
	case models.OutcomeForfeit:
		game.Status = models.GameStatusForfeited
	default:
		game.Status = models.GameStatusCompleted
	}

	duration := int(completedAt.Sub(game.StartedAt).Seconds())
	logger.Log.Info("Game finished",
		zap.String("game_id", game.GameID.String()),
		zap.String("username", game.Username),
		zap.String("outcome", string(outcome)),
		zap.Int("moves", game.MoveCount),
	)

	over := &models.GameOverPayload{
		Outcome:  outcome,
		Board:    game.Board,
		Duration: duration,
	}
	event := models.GameCompletedEvent{
		Type:       models.EventGameCompleted,
		GameID:     game.GameID,
		Username:   game.Username,
		Outcome:    outcome,
		TotalMoves: game.MoveCount,
		Duration:   duration,
		Timestamp:  completedAt,
	}
	return over, event
}

func (gs *GameService) publishAll(events []interface{}) {
	for _, event := range events {
		switch e := event.(type) {
		case models.MoveMadeEvent:
			gs.publish(func() error { return gs.publisher.PublishMoveMade(e) })
		case models.GameCompletedEvent:
			gs.publish(func() error { return gs.publisher.PublishGameCompleted(e) })
		}
	}
}

func (gs *GameService) publish(send func() error) {
	if err := send(); err != nil {
		logger.Log.Warn("Failed to publish game event", zap.Error(err))
	}
}
