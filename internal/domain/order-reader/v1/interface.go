package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// OrderReader defines the interface for reading order commands from a source.
type OrderReader interface {
	// ReadMessage reads a message and returns it with the decoded command
	ReadMessage(ctx context.Context) (kafka.Message, *OrderCommand, error)
	// CommitMessages commits the messages after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader
	Close() error
}
