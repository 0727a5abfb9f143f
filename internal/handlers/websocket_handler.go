package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"connect4/internal/models"
	"connect4/internal/services"
	"connect4/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// client serializes writes; gorilla connections allow one concurrent writer.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

func (cl *client) send(msg models.WSMessage) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if err := cl.conn.WriteJSON(msg); err != nil {
		logger.Log.Error("Failed to send message", zap.String("socket_id", cl.id), zap.Error(err))
	}
}

func (cl *client) sendError(message string) {
	cl.send(models.WSMessage{
		Type:    models.WSError,
		Payload: models.ErrorPayload{Message: message},
	})
}

type WSHandler struct {
	gameService         *services.GameService
	reconnectionService *services.ReconnectionService
	botDelay            time.Duration
	playerGames         map[string]uuid.UUID
	connMutex           sync.RWMutex
}

func NewWSHandler(game *services.GameService, reconnection *services.ReconnectionService, botDelay time.Duration) *WSHandler {
	handler := &WSHandler{
		gameService:         game,
		reconnectionService: reconnection,
		botDelay:            botDelay,
		playerGames:         make(map[string]uuid.UUID),
	}

	reconnection.SetForfeitCallback(handler.handleForfeit)

	return handler
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	cl := &client{id: uuid.New().String(), conn: conn}
	var username string

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if username != "" {
				h.handleDisconnection(username)
			}
			break
		}

		var wsMsg struct {
			Type    models.WSMessageType `json:"type"`
			Payload json.RawMessage      `json:"payload"`
		}
		if err := json.Unmarshal(message, &wsMsg); err != nil {
			cl.sendError("Invalid message format")
			continue
		}

		switch wsMsg.Type {
		case models.WSStartGame:
			if name := h.handleStartGame(cl, wsMsg.Payload); name != "" {
				username = name
			}
		case models.WSMakeMove:
			h.handleMakeMove(cl, username, wsMsg.Payload)
		case models.WSReconnectGame:
			if name := h.handleReconnectGame(cl, wsMsg.Payload); name != "" {
				username = name
			}
		default:
			cl.sendError("Unknown message type")
		}
	}
}

func (h *WSHandler) handleStartGame(cl *client, payload json.RawMessage) string {
	var start models.StartGamePayload
	if err := json.Unmarshal(payload, &start); err != nil || len(start.Username) < 3 || len(start.Username) > 50 {
		cl.sendError("Invalid username")
		return ""
	}

	game, opening, err := h.gameService.StartGame(start.Username, start.HumanFirst)
	if err != nil {
		cl.sendError(err.Error())
		return ""
	}

	h.connMutex.Lock()
	h.playerGames[start.Username] = game.GameID
	h.connMutex.Unlock()

	cl.send(models.WSMessage{
		Type: models.WSGameStarted,
		Payload: models.GameStartedPayload{
			GameID:      game.GameID,
			Board:       game.Board,
			CurrentTurn: game.CurrentTurn,
			HumanFirst:  game.HumanFirst,
			OpeningMove: opening,
		},
	})
	return start.Username
}

func (h *WSHandler) handleMakeMove(cl *client, username string, payload json.RawMessage) {
	var movePayload models.MakeMovePayload
	if err := json.Unmarshal(payload, &movePayload); err != nil {
		cl.sendError("Invalid move payload")
		return
	}

	game, err := h.gameService.GetGame(movePayload.GameID)
	if err != nil {
		cl.sendError("Game not found")
		return
	}
	if username == "" || game.Username != username {
		cl.sendError("You are not in this game")
		return
	}

	move, gameOver, err := h.gameService.MakeMove(movePayload.GameID, movePayload.Column)
	if err != nil {
		cl.sendError(err.Error())
		return
	}

	cl.send(models.WSMessage{Type: models.WSMoveAccepted, Payload: move})
	if gameOver != nil {
		cl.send(models.WSMessage{Type: models.WSGameOver, Payload: gameOver})
		return
	}

	if h.botDelay > 0 {
		time.Sleep(h.botDelay)
	}
	botMove, botGameOver, err := h.gameService.MakeBotMove(movePayload.GameID)
	if err != nil {
		cl.sendError(err.Error())
		return
	}
	cl.send(models.WSMessage{Type: models.WSOpponentMoved, Payload: botMove})
	if botGameOver != nil {
		cl.send(models.WSMessage{Type: models.WSGameOver, Payload: botGameOver})
	}
}

func (h *WSHandler) handleReconnectGame(cl *client, payload json.RawMessage) string {
	var reconnect models.ReconnectPayload
	if err := json.Unmarshal(payload, &reconnect); err != nil || reconnect.Username == "" || reconnect.GameID == uuid.Nil {
		cl.sendError("Username and game_id are required")
		return ""
	}

	gameState, err := h.reconnectionService.HandleReconnection(reconnect.Username, reconnect.GameID)
	if err != nil || gameState == nil {
		cl.sendError("Failed to reconnect to game")
		return ""
	}

	h.connMutex.Lock()
	h.playerGames[reconnect.Username] = gameState.GameID
	h.connMutex.Unlock()

	cl.send(models.WSMessage{Type: models.WSGameRestored, Payload: gameState})
	return reconnect.Username
}

func (h *WSHandler) handleDisconnection(username string) {
	h.connMutex.Lock()
	gameID, hasGame := h.playerGames[username]
	delete(h.playerGames, username)
	h.connMutex.Unlock()

	if !hasGame {
		return
	}
	game, err := h.gameService.GetGame(gameID)
	if err == nil && game.Status == models.GameStatusActive {
		h.reconnectionService.TrackDisconnection(username, gameID)
	}
}

func (h *WSHandler) handleForfeit(player models.DisconnectedPlayer, result *models.GameOverPayload) {
	logger.Log.Info("Game forfeited due to disconnect",
		zap.String("username", player.Username),
		zap.String("game_id", player.GameID.String()),
		zap.Int("duration_seconds", result.Duration),
	)
}
