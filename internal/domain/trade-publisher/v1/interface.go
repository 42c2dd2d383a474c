package tradepublisherv1

import "context"

// TradePublisher defines the interface for publishing trade events downstream.
type TradePublisher interface {
	PublishTrade(ctx context.Context, event *TradeEvent) error
	Close() error
}
