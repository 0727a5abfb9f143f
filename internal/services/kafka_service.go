package services

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"time"

	"connect4/internal/config"
	"connect4/internal/models"
	"connect4/pkg/logger"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/scram"
	"go.uber.org/zap"
)

// EventPublisher receives the lifecycle events of every session.
type EventPublisher interface {
	PublishGameStarted(event models.GameStartedEvent) error
	PublishMoveMade(event models.MoveMadeEvent) error
	PublishGameCompleted(event models.GameCompletedEvent) error
	Close() error
}

// NopPublisher drops events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) PublishGameStarted(models.GameStartedEvent) error     { return nil }
func (NopPublisher) PublishMoveMade(models.MoveMadeEvent) error           { return nil }
func (NopPublisher) PublishGameCompleted(models.GameCompletedEvent) error { return nil }
func (NopPublisher) Close() error                                         { return nil }

type KafkaProducer struct {
	writer *kafka.Writer
	config *config.Config
}

// saslMechanism returns nil when no credentials are configured, which
// means a plaintext connection.
func saslMechanism(cfg *config.Config) (sasl.Mechanism, *tls.Config, error) {
	if cfg.Kafka.Username == "" {
		return nil, nil, nil
	}
	mechanism, err := scram.Mechanism(scram.SHA256, cfg.Kafka.Username, cfg.Kafka.Password)
	if err != nil {
		return nil, nil, err
	}
	return mechanism, &tls.Config{}, nil
}

func NewKafkaProducer(cfg *config.Config) (*KafkaProducer, error) {
	mechanism, tlsConfig, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.TopicEvents,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		Compression:  kafka.Snappy,
		Transport: &kafka.Transport{
			SASL: mechanism,
			TLS:  tlsConfig,
		},
	}

	kp := &KafkaProducer{
		writer: writer,
		config: cfg,
	}

	logger.Log.Info("Kafka producer initialized",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.TopicEvents),
		zap.Bool("sasl", mechanism != nil),
	)

	return kp, nil
}

func (kp *KafkaProducer) PublishGameStarted(event models.GameStartedEvent) error {
	return kp.publish(event.GameID.String(), event)
}

func (kp *KafkaProducer) PublishMoveMade(event models.MoveMadeEvent) error {
	return kp.publish(event.GameID.String(), event)
}

func (kp *KafkaProducer) PublishGameCompleted(event models.GameCompletedEvent) error {
	return kp.publish(event.GameID.String(), event)
}

// publish keys messages by game so one game's events stay ordered on a
// single partition.
func (kp *KafkaProducer) publish(key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("Failed to marshal event", zap.Error(err))
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := kp.writer.WriteMessages(ctx, msg); err != nil {
		logger.Log.Error("Kafka write failed", zap.Error(err))
		return err
	}

	logger.Log.Debug("Event published to Kafka", zap.Int("size", len(data)))
	return nil
}

func (kp *KafkaProducer) Close() error {
	if kp.writer != nil {
		return kp.writer.Close()
	}
	return nil
}

type KafkaConsumer struct {
	reader    *kafka.Reader
	analytics *AnalyticsService
}

func NewKafkaConsumer(cfg *config.Config, analytics *AnalyticsService) (*KafkaConsumer, error) {
	mechanism, tlsConfig, err := saslMechanism(cfg)
	if err != nil {
		return nil, err
	}

	dialer := &kafka.Dialer{
		Timeout:       10 * time.Second,
		DualStack:     true,
		SASLMechanism: mechanism,
		TLS:           tlsConfig,
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.TopicEvents,
		GroupID:        cfg.Kafka.GroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
		Dialer:         dialer,
	})

	logger.Log.Info("Kafka consumer initialized",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.TopicEvents),
		zap.String("group_id", cfg.Kafka.GroupID),
	)

	return &KafkaConsumer{
		reader:    reader,
		analytics: analytics,
	}, nil
}

// Start reads until ctx is cancelled.
func (kc *KafkaConsumer) Start(ctx context.Context) {
	logger.Log.Info("Starting Kafka consumer...")

	for {
		msg, err := kc.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logger.Log.Info("Kafka consumer stopped")
				return
			}
			logger.Log.Error("Kafka read error", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Second):
			}
			continue
		}

		if err := kc.analytics.HandleMessage(ctx, msg.Value); err != nil {
			logger.Log.Error("Failed to process event",
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	if kc.reader != nil {
		return kc.reader.Close()
	}
	return nil
}
