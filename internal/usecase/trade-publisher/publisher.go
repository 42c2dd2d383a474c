package tradepublisher

import (
	"context"
	"encoding/json"

	tradepublisherv1 "github.com/decarv/ome/internal/domain/trade-publisher/v1"
	"github.com/decarv/ome/pkg/config"
	"github.com/decarv/ome/pkg/errors"
	"github.com/decarv/ome/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Publisher writes trade events to the outbound trade topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
}

// NewPublisher creates a Kafka publisher for trade events. It returns an
// implementation of the TradePublisher interface.
func NewPublisher(cfg config.TradeFeedConfig, log *logger.Logger) *Publisher {
	kafkaWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
	}
}

// PublishTrade publishes one trade event, keyed by event id.
func (p *Publisher) PublishTrade(ctx context.Context, event *tradepublisherv1.TradeEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "operation", Value: "PublishTrade"},
			logger.Field{Key: "eventID", Value: event.EventID},
		)
		return errors.NewTracer(string(errors.KafkaPublishError)).Wrap(err)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
