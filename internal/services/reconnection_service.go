package services

import (
	"errors"
	"sync"
	"time"

	"connect4/internal/models"
	"connect4/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrReconnectMismatch = errors.New("no pending game matches this player")

// ReconnectionService gives a disconnected player a grace period before
// their game is forfeited.
type ReconnectionService struct {
	timeout             time.Duration
	disconnectedPlayers map[string]*pendingForfeit
	disconnectedMutex   sync.Mutex
	gameService         *GameService
	onForfeitCallback   func(player models.DisconnectedPlayer, result *models.GameOverPayload)
}

type pendingForfeit struct {
	player models.DisconnectedPlayer
	timer  *time.Timer
}

func NewReconnectionService(timeout time.Duration, gameService *GameService) *ReconnectionService {
	return &ReconnectionService{
		timeout:             timeout,
		disconnectedPlayers: make(map[string]*pendingForfeit),
		gameService:         gameService,
	}
}

func (rs *ReconnectionService) SetForfeitCallback(callback func(player models.DisconnectedPlayer, result *models.GameOverPayload)) {
	rs.onForfeitCallback = callback
}

func (rs *ReconnectionService) TrackDisconnection(username string, gameID uuid.UUID) {
	rs.disconnectedMutex.Lock()
	defer rs.disconnectedMutex.Unlock()

	if pending, ok := rs.disconnectedPlayers[username]; ok {
		pending.timer.Stop()
	}

	player := models.DisconnectedPlayer{
		Username:       username,
		GameID:         gameID,
		DisconnectedAt: time.Now(),
	}
	pending := &pendingForfeit{player: player}
	pending.timer = time.AfterFunc(rs.timeout, func() { rs.expire(username, pending) })
	rs.disconnectedPlayers[username] = pending

	logger.Log.Info("Player disconnected",
		zap.String("username", username),
		zap.String("game_id", gameID.String()),
		zap.Duration("grace", rs.timeout),
	)
}

func (rs *ReconnectionService) expire(username string, pending *pendingForfeit) {
	rs.disconnectedMutex.Lock()
	current, exists := rs.disconnectedPlayers[username]
	if !exists || current != pending {
		rs.disconnectedMutex.Unlock()
		return
	}
	delete(rs.disconnectedPlayers, username)
	rs.disconnectedMutex.Unlock()

	result, err := rs.gameService.ForfeitGame(pending.player.GameID)
	if err != nil {
		logger.Log.Debug("Forfeit skipped", zap.String("username", username), zap.Error(err))
		return
	}
	logger.Log.Info("Player forfeited due to timeout", zap.String("username", username))
	if rs.onForfeitCallback != nil {
		rs.onForfeitCallback(pending.player, result)
	}
}

// HandleReconnection cancels the pending forfeit and returns the game
// snapshot. It returns nil, nil when username has nothing pending. The
// pending forfeit is left running when gameID does not match it.
func (rs *ReconnectionService) HandleReconnection(username string, gameID uuid.UUID) (*models.GameState, error) {
	rs.disconnectedMutex.Lock()
	pending, exists := rs.disconnectedPlayers[username]
	if !exists {
		rs.disconnectedMutex.Unlock()
		return nil, nil
	}
	if pending.player.GameID != gameID {
		rs.disconnectedMutex.Unlock()
		logger.Log.Warn("Reconnect rejected",
			zap.String("username", username),
			zap.String("game_id", gameID.String()),
		)
		return nil, ErrReconnectMismatch
	}
	pending.timer.Stop()
	delete(rs.disconnectedPlayers, username)
	rs.disconnectedMutex.Unlock()

	gameState, err := rs.gameService.GetGame(pending.player.GameID)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Player reconnected",
		zap.String("username", username),
		zap.String("game_id", pending.player.GameID.String()),
	)
	return gameState, nil
}

func (rs *ReconnectionService) Pending() int {
	rs.disconnectedMutex.Lock()
	defer rs.disconnectedMutex.Unlock()
	return len(rs.disconnectedPlayers)
}
