package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connect4/internal/config"
	"connect4/internal/database"
	"connect4/internal/services"
	"connect4/pkg/logger"

	"go.uber.org/zap"
)

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

	if !cfg.HasDatabase() || !cfg.HasKafka() {
		logger.Log.Fatal("Analytics consumer needs DATABASE_URL and KAFKA_BROKERS")
	}

	logger.Log.Info("Starting Connect4 analytics consumer",
		zap.String("env", cfg.Server.Env),
		zap.Strings("kafka_brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.TopicEvents),
		zap.String("group_id", cfg.Kafka.GroupID),
	)

	db, err := database.New(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	schemaCtx, schemaCancel := context.WithTimeout(context.Background(), 10*time.Second)
	err = db.EnsureSchema(schemaCtx)
	schemaCancel()
	if err != nil {
		logger.Log.Fatal("Failed to prepare schema", zap.Error(err))
	}

	analyticsService := services.NewAnalyticsService(db)

	kafkaConsumer, err := services.NewKafkaConsumer(cfg, analyticsService)
	if err != nil {
		logger.Log.Fatal("Failed to create Kafka consumer", zap.Error(err))
	}
	defer kafkaConsumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Log.Info("Kafka consumer started, waiting for events...")
		kafkaConsumer.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutdown signal received, stopping consumer...")
	cancel()
	<-done

	logger.Log.Info("Analytics consumer stopped")
}
