package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"connect4/internal/bot"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Game     GameConfig
	Kafka    KafkaConfig
	Bot      BotConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	DatabaseURL string
}

type GameConfig struct {
	ReconnectionTimeout int
	BotMoveDelayMs      int
}

type KafkaConfig struct {
	Brokers     []string
	TopicEvents string
	GroupID     string
	Username    string
	Password    string
}

type BotConfig struct {
	Depth     int
	Seed      int64
	Heuristic string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Game: GameConfig{
			ReconnectionTimeout: getEnvAsInt("RECONNECTION_TIMEOUT", 30),
			BotMoveDelayMs:      getEnvAsInt("BOT_MOVE_DELAY_MS", 500),
		},
		Kafka: KafkaConfig{
			Brokers:     splitList(getEnv("KAFKA_BROKERS", "")),
			TopicEvents: getEnv("KAFKA_TOPIC_EVENTS", "game.events"),
			GroupID:     getEnv("KAFKA_GROUP_ID", "connect4-analytics-consumer"),
			Username:    getEnv("KAFKA_USERNAME", ""),
			Password:    getEnv("KAFKA_PASSWORD", ""),
		},
		Bot: BotConfig{
			Depth:     getEnvAsInt("BOT_DEPTH", bot.DefaultDepth),
			Seed:      getEnvAsInt64("BOT_SEED", 0),
			Heuristic: getEnv("BOT_HEURISTIC", string(bot.HeuristicFull)),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	if c.Bot.Depth < 1 {
		return fmt.Errorf("BOT_DEPTH must be at least 1, got %d", c.Bot.Depth)
	}
	if _, err := bot.ParseHeuristicMode(c.Bot.Heuristic); err != nil {
		return fmt.Errorf("BOT_HEURISTIC: %w", err)
	}
	if c.Game.ReconnectionTimeout < 0 || c.Game.BotMoveDelayMs < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

// BotOptions turns the bot section into options for bot.New. Validate has
// already rejected unknown heuristic names.
func (c *Config) BotOptions() bot.Options {
	mode, _ := bot.ParseHeuristicMode(c.Bot.Heuristic)
	return bot.Options{
		Depth:     c.Bot.Depth,
		Seed:      c.Bot.Seed,
		Heuristic: mode,
	}
}

func (c *Config) HasDatabase() bool {
	return c.Database.DatabaseURL != ""
}

func (c *Config) HasKafka() bool {
	return len(c.Kafka.Brokers) > 0
}

func (c *Config) GetDatabaseDSN() (string, error) {
	if c.Database.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is not set")
	}
	return c.Database.DatabaseURL, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
