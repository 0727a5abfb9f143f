package handlers

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, httpHandler *HTTPHandler, wsHandler *WSHandler, analyticsHandler *AnalyticsHandler) {
	// WebSocket
	r.GET("/ws", wsHandler.HandleWebSocket)

	api := r.Group("/api")
	{
		api.GET("/health", httpHandler.GetHealth)

		api.POST("/games", httpHandler.StartGame)
		api.GET("/games/:id", httpHandler.GetGame)
		api.POST("/games/:id/moves", httpHandler.MakeMove)
		api.POST("/games/:id/forfeit", httpHandler.Forfeit)

		api.GET("/leaderboard", httpHandler.GetLeaderboard)
		api.GET("/player/:username", httpHandler.GetPlayerStats)

		api.GET("/analytics/summary", analyticsHandler.GetStatistics)
		api.GET("/analytics/columns", analyticsHandler.GetPopularColumns)
	}
}
