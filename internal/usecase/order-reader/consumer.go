package orderreader

import (
	"context"
	"encoding/json"

	orderreaderv1 "github.com/decarv/ome/internal/domain/order-reader/v1"
	"github.com/decarv/ome/pkg/config"
	"github.com/decarv/ome/pkg/errors"
	"github.com/decarv/ome/pkg/logger"
	"github.com/segmentio/kafka-go"
)

// Reader consumes order commands from the order topic. A single Reader driven
// by a single goroutine is the serialization gate in front of the book.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a Kafka reader for the order command topic. It returns an
// implementation of the OrderReader interface.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

// ReadMessage reads one message from the order topic and decodes it as an
// OrderCommand.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *orderreaderv1.OrderCommand, error) {
	msg, err := r.kafkaReader.FetchMessage(ctx)
	if err != nil {
		return kafka.Message{}, nil, errors.NewTracer(string(errors.KafkaReadError)).Wrap(err)
	}

	var command orderreaderv1.OrderCommand
	if err := json.Unmarshal(msg.Value, &command); err != nil {
		r.logger.Error(err,
			logger.Field{Key: "operation", Value: "UnmarshalOrderCommand"},
			logger.Field{Key: "offset", Value: msg.Offset},
		)
		return kafka.Message{}, nil, errors.NewTracer(string(errors.CommandParseError)).Wrap(err)
	}

	r.logger.Debug("order command read",
		logger.Field{Key: "action", Value: command.Action},
		logger.Field{Key: "side", Value: command.Side},
		logger.Field{Key: "price", Value: command.Price},
		logger.Field{Key: "quantity", Value: command.Quantity},
		logger.Field{Key: "orderID", Value: command.OrderID},
		logger.Field{Key: "offset", Value: msg.Offset},
	)

	return msg, &command, nil
}

// CommitMessages commits the messages after processing.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if err := r.kafkaReader.CommitMessages(ctx, msgs...); err != nil {
		return errors.NewTracer(string(errors.KafkaReadError)).Wrap(err)
	}
	return nil
}

// Close properly closes the Kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logger.Error(err, logger.Field{Key: "operation", Value: "Close"})
		return err
	}
	return nil
}
