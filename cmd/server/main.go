package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connect4/internal/bot"
	"connect4/internal/config"
	"connect4/internal/database"
	"connect4/internal/handlers"
	"connect4/internal/middleware"
	"connect4/internal/services"
	"connect4/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const finishedGameTTL = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.Env); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Log.Info("Starting Connect4 server",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.Int("bot_depth", cfg.Bot.Depth),
		zap.String("heuristic", cfg.Bot.Heuristic),
	)

	// Stats are optional; without a database the game still runs.
	var store services.StatsStore
	var pinger handlers.Pinger
	if cfg.HasDatabase() {
		db, err := database.New(cfg)
		if err != nil {
			logger.Log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err = db.EnsureSchema(ctx)
		cancel()
		if err != nil {
			logger.Log.Fatal("Failed to prepare schema", zap.Error(err))
		}
		store, pinger = db, db
	} else {
		logger.Log.Warn("DATABASE_URL not set, stats endpoints disabled")
	}

	var publisher services.EventPublisher = services.NopPublisher{}
	if cfg.HasKafka() {
		producer, err := services.NewKafkaProducer(cfg)
		if err != nil {
			logger.Log.Fatal("Failed to create Kafka producer", zap.Error(err))
		}
		publisher = producer
	}
	defer publisher.Close()

	gameService := services.NewGameService(bot.New(cfg.BotOptions()), publisher)
	reconnectionService := services.NewReconnectionService(time.Duration(cfg.Game.ReconnectionTimeout)*time.Second, gameService)
	leaderboardService := services.NewLeaderboardService(store)
	analyticsService := services.NewAnalyticsService(store)

	httpHandler := handlers.NewHTTPHandler(gameService, leaderboardService, pinger)
	wsHandler := handlers.NewWSHandler(gameService, reconnectionService, time.Duration(cfg.Game.BotMoveDelayMs)*time.Millisecond)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	handlers.RegisterRoutes(r, httpHandler, wsHandler, analyticsHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go pruneLoop(ctx, gameService)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server shutdown failed", zap.Error(err))
	}
}

func pruneLoop(ctx context.Context, gameService *services.GameService) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gameService.PruneFinished(finishedGameTTL)
		}
	}
}
