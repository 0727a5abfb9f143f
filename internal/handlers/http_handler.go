package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"connect4/internal/models"
	"connect4/internal/services"
	"connect4/internal/utils"
	"connect4/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Pinger reports storage health. A nil Pinger means no database is
// configured.
type Pinger interface {
	Ping() error
}

type HTTPHandler struct {
	gameService        *services.GameService
	leaderboardService *services.LeaderboardService
	db                 Pinger
}

func NewHTTPHandler(gameService *services.GameService, leaderboardService *services.LeaderboardService, db Pinger) *HTTPHandler {
	return &HTTPHandler{
		gameService:        gameService,
		leaderboardService: leaderboardService,
		db:                 db,
	}
}

// POST /api/games
func (h *HTTPHandler) StartGame(c *gin.Context) {
	var req models.StartGamePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "A username of 3 to 50 characters is required")
		return
	}

	game, opening, err := h.gameService.StartGame(req.Username, req.HumanFirst)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, models.GameStartedPayload{
		GameID:      game.GameID,
		Board:       game.Board,
		CurrentTurn: game.CurrentTurn,
		HumanFirst:  game.HumanFirst,
		OpeningMove: opening,
	})
}

// GET /api/games/:id
func (h *HTTPHandler) GetGame(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}
	game, err := h.gameService.GetGame(gameID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, game)
}

// POST /api/games/:id/moves plays the human move and, unless that ended
// the game, the AI reply.
func (h *HTTPHandler) MakeMove(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Column == nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_REQUEST", "A column is required")
		return
	}

	move, gameOver, err := h.gameService.MakeMove(gameID, *req.Column)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	// The human move is saved at this point, so a failed reply is reported
	// next to it instead of failing the request.
	resp := gin.H{"move": move}
	if gameOver == nil {
		botMove, botGameOver, err := h.gameService.MakeBotMove(gameID)
		if err != nil {
			logger.Log.Warn("Bot reply failed", zap.String("game_id", gameID.String()), zap.Error(err))
			resp["bot_error"] = botError(err)
		} else {
			resp["bot_move"] = botMove
			gameOver = botGameOver
		}
	}
	if gameOver != nil {
		resp["game_over"] = gameOver
	}
	utils.SuccessResponse(c, http.StatusOK, resp)
}

// POST /api/games/:id/forfeit
func (h *HTTPHandler) Forfeit(c *gin.Context) {
	gameID, ok := parseGameID(c)
	if !ok {
		return
	}
	gameOver, err := h.gameService.ForfeitGame(gameID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, gin.H{"game_over": gameOver})
}

// GET /api/leaderboard
func (h *HTTPHandler) GetLeaderboard(c *gin.Context) {
	limitStr := c.DefaultQuery("limit", "100")
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 100
	}

	leaderboard, err := h.leaderboardService.GetLeaderboard(c.Request.Context(), limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"leaderboard": leaderboard,
		"total":       len(leaderboard),
	})
}

// GET /api/player/:username
func (h *HTTPHandler) GetPlayerStats(c *gin.Context) {
	username := c.Param("username")
	if username == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_USERNAME", "Username is required")
		return
	}

	player, err := h.leaderboardService.GetPlayerStats(c.Request.Context(), username)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if player == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "PLAYER_NOT_FOUND", "Player not found")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, gin.H{
		"player": player,
	})
}

// GET /api/health
func (h *HTTPHandler) GetHealth(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "disabled"})
		return
	}
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "disconnected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}

func parseGameID(c *gin.Context) (uuid.UUID, bool) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "INVALID_GAME_ID", "Game id must be a UUID")
		return uuid.Nil, false
	}
	return gameID, true
}

func writeServiceError(c *gin.Context, err error) {
	status, code := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Log.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		utils.ErrorResponse(c, status, code, "An internal error occurred")
		return
	}
	utils.ErrorResponse(c, status, code, err.Error())
}

func botError(err error) gin.H {
	_, code := errorStatus(err)
	return gin.H{"code": code, "message": err.Error()}
}

func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrGameNotFound):
		return http.StatusNotFound, "GAME_NOT_FOUND"
	case errors.Is(err, services.ErrGameNotActive):
		return http.StatusConflict, "GAME_NOT_ACTIVE"
	case errors.Is(err, services.ErrNotYourTurn):
		return http.StatusConflict, "NOT_YOUR_TURN"
	case errors.Is(err, services.ErrBoardChanged):
		return http.StatusConflict, "BOARD_CHANGED"
	case errors.Is(err, services.ErrInvalidColumn):
		return http.StatusBadRequest, "INVALID_COLUMN"
	case errors.Is(err, services.ErrColumnFull):
		return http.StatusBadRequest, "COLUMN_FULL"
	case errors.Is(err, services.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "STATS_DISABLED"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
