package config

import (
	"testing"

	"connect4/internal/bot"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "RECONNECTION_TIMEOUT", "BOT_MOVE_DELAY_MS",
		"KAFKA_BROKERS", "KAFKA_TOPIC_EVENTS", "KAFKA_GROUP_ID", "KAFKA_USERNAME", "KAFKA_PASSWORD",
		"BOT_DEPTH", "BOT_SEED", "BOT_HEURISTIC",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Server.Env != "development" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Bot.Depth != bot.DefaultDepth || cfg.Bot.Heuristic != "full" || cfg.Bot.Seed != 0 {
		t.Fatalf("unexpected bot config: %+v", cfg.Bot)
	}
	if cfg.HasDatabase() || cfg.HasKafka() {
		t.Fatalf("database and kafka should be disabled by default")
	}
	if _, err := cfg.GetDatabaseDSN(); err == nil {
		t.Fatalf("expected an error for a missing DATABASE_URL")
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_DEPTH", "4")
	t.Setenv("BOT_SEED", "99")
	t.Setenv("BOT_HEURISTIC", "center")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,,")
	t.Setenv("RECONNECTION_TIMEOUT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	opts := cfg.BotOptions()
	if opts.Depth != 4 || opts.Seed != 99 || opts.Heuristic != bot.HeuristicCenter {
		t.Fatalf("unexpected bot options: %+v", opts)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[1] != "b:9092" {
		t.Fatalf("unexpected brokers: %q", cfg.Kafka.Brokers)
	}
	if cfg.Game.ReconnectionTimeout != 30 {
		t.Fatalf("bad integer should fall back to default, got %d", cfg.Game.ReconnectionTimeout)
	}
}

func TestLoadRejectsInvalidBotSettings(t *testing.T) {
	for _, tc := range []struct{ key, value string }{
		{"BOT_DEPTH", "0"},
		{"BOT_HEURISTIC", "random"},
	} {
		clearEnv(t)
		t.Setenv(tc.key, tc.value)
		if _, err := Load(); err == nil {
			t.Fatalf("%s=%s: expected an error", tc.key, tc.value)
		}
	}
}
