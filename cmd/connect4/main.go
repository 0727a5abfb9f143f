package main

import (
	"errors"
	"fmt"
	"os"

	"connect4/internal/bot"
	"connect4/internal/config"
	"connect4/internal/console"
	"connect4/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Development logs would interleave with the board.
	if err := logger.Init("production"); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	game := console.New(bot.New(cfg.BotOptions()), os.Stdin, os.Stdout)
	if _, err := game.Play(); err != nil {
		if errors.Is(err, console.ErrInputClosed) {
			fmt.Println("\nGoodbye!")
			return
		}
		logger.Log.Error("Console game failed", zap.Error(err))
		os.Exit(1)
	}
}
