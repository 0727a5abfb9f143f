package services

import (
	"testing"

	"connect4/internal/config"
)

var (
	_ EventPublisher = (*KafkaProducer)(nil)
	_ EventPublisher = NopPublisher{}
)

func TestSASLOnlyWithCredentials(t *testing.T) {
	cfg := &config.Config{}
	mechanism, tlsConfig, err := saslMechanism(cfg)
	if err != nil || mechanism != nil || tlsConfig != nil {
		t.Fatalf("expected plaintext without credentials, got %v %v %v", mechanism, tlsConfig, err)
	}

	cfg.Kafka.Username = "user"
	cfg.Kafka.Password = "secret"
	mechanism, tlsConfig, err = saslMechanism(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mechanism == nil || mechanism.Name() != "SCRAM-SHA-256" || tlsConfig == nil {
		t.Fatalf("expected SCRAM-SHA-256 over TLS, got %v %v", mechanism, tlsConfig)
	}
}

func TestNewKafkaProducerDoesNotDial(t *testing.T) {
	cfg := &config.Config{}
	cfg.Kafka.Brokers = []string{"127.0.0.1:1"}
	cfg.Kafka.TopicEvents = "game.events"

	producer, err := NewKafkaProducer(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
