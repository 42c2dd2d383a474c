package service

import (
	"context"
	"sync"
	"time"

	"github.com/decarv/ome/internal/app/engine"
	orderreaderv1 "github.com/decarv/ome/internal/domain/order-reader/v1"
	orderbookv1 "github.com/decarv/ome/internal/domain/orderbook/v1"
	snapshotv1 "github.com/decarv/ome/internal/domain/snapshot/v1"
	tradepublisherv1 "github.com/decarv/ome/internal/domain/trade-publisher/v1"
	"github.com/decarv/ome/pkg/errors"
	"github.com/decarv/ome/pkg/logger"
	"github.com/decarv/ome/pkg/util"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// Service drives the engine from the order command topic and fans results out
// to the trade feed and the snapshot cache. The order processor is the only
// goroutine that mutates the book.
type Service struct {
	engine         *engine.Engine
	orderReader    orderreaderv1.OrderReader
	tradePublisher tradepublisherv1.TradePublisher
	snapshotCache  snapshotv1.Cache
	logger         *logger.Logger
	instrument     string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	snapshotInterval time.Duration
	readBackoff      time.Duration
}

// NewService creates a service with default options.
func NewService(
	eng *engine.Engine,
	orderReader orderreaderv1.OrderReader,
	tradePublisher tradepublisherv1.TradePublisher,
	snapshotCache snapshotv1.Cache,
	log *logger.Logger,
	instrument string,
) *Service {
	return NewServiceWithOptions(eng, orderReader, tradePublisher, snapshotCache, log, instrument, DefaultOptions())
}

// NewServiceWithOptions creates a service with custom options.
func NewServiceWithOptions(
	eng *engine.Engine,
	orderReader orderreaderv1.OrderReader,
	tradePublisher tradepublisherv1.TradePublisher,
	snapshotCache snapshotv1.Cache,
	log *logger.Logger,
	instrument string,
	options *Options,
) *Service {
	return &Service{
		engine:         eng,
		orderReader:    orderReader,
		tradePublisher: tradePublisher,
		snapshotCache:  snapshotCache,
		logger:         log,
		instrument:     instrument,

		snapshotInterval: options.SnapshotInterval,
		readBackoff:      options.ReadBackoff,
	}
}

// Start launches the processing loops.
func (s *Service) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(2)
	go s.runOrderProcessor()
	go s.runSnapshotRefresher()

	s.logger.Info("service started", logger.Field{Key: "instrument", Value: s.instrument})
	return nil
}

// Stop shuts the service down and waits for the loops to drain. The given
// context bounds how long to wait.
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("service stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("service stop timeout exceeded")
		return ctx.Err()
	}
}

// runOrderProcessor reads, commits, and applies order commands one at a time.
func (s *Service) runOrderProcessor() {
	defer s.wg.Done()

	s.logger.Info("starting order processor", logger.Field{Key: "instrument", Value: s.instrument})

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("order processor shutting down")
			if err := s.orderReader.Close(); err != nil {
				s.logger.Error(err, logger.Field{Key: "action", Value: "close_order_reader"})
			}
			return
		default:
			msg, command, err := s.orderReader.ReadMessage(s.ctx)
			if err != nil {
				if s.ctx.Err() != nil {
					continue
				}
				s.logger.ErrorContext(s.ctx, err, logger.Field{Key: "action", Value: "read_order_command"})
				time.Sleep(s.readBackoff)
				continue
			}

			// Commit before processing: a rejected command must not be
			// redelivered and rejected forever.
			if err := s.orderReader.CommitMessages(s.ctx, msg); err != nil {
				s.logger.ErrorContext(s.ctx, err, logger.Field{Key: "action", Value: "commit_order_command"})
			}

			ctx := util.WithRequestID(s.ctx, "")
			if err := s.processCommand(ctx, command); err != nil {
				s.logger.ErrorContext(ctx, err,
					logger.Field{Key: "action", Value: "process_order_command"},
					logger.Field{Key: "commandAction", Value: command.Action},
					logger.Field{Key: "orderID", Value: command.OrderID},
				)
			}
		}
	}
}

// runSnapshotRefresher periodically pushes the display snapshot to the cache.
func (s *Service) runSnapshotRefresher() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.snapshotInterval)
	defer ticker.Stop()

	s.logger.Info("starting snapshot refresher",
		logger.Field{Key: "interval", Value: s.snapshotInterval.String()},
	)

	for {
		select {
		case <-s.ctx.Done():
			s.logger.Info("snapshot refresher shutting down")
			return
		case <-ticker.C:
			snapshot := s.engine.Snapshot()
			if err := s.snapshotCache.Cache(s.ctx, snapshot); err != nil {
				s.logger.ErrorContext(s.ctx, err, logger.Field{Key: "action", Value: "cache_snapshot"})
			}
		}
	}
}

// processCommand applies one decoded command to the engine and publishes any
// resulting trades.
func (s *Service) processCommand(ctx context.Context, command *orderreaderv1.OrderCommand) error {
	switch command.Action {
	case orderreaderv1.ActionPlaceLimit:
		price, err := decimal.NewFromString(command.Price)
		if err != nil {
			return errors.NewTracer(string(errors.CommandParseError)).Wrap(err)
		}
		result, err := s.engine.PlaceLimitOrder(command.Side, price, command.Quantity)
		if err != nil {
			return err
		}
		return s.publishTrades(ctx, result.Trades)

	case orderreaderv1.ActionPlaceMarket:
		result, err := s.engine.PlaceMarketOrder(command.Side, command.Quantity)
		if err != nil {
			return err
		}
		if result.Remaining > 0 {
			s.logger.InfoContext(ctx, "market order not fully executed",
				logger.Field{Key: "instrument", Value: s.instrument},
				logger.Field{Key: "side", Value: command.Side},
				logger.Field{Key: "remaining", Value: result.Remaining},
			)
		}
		return s.publishTrades(ctx, result.Trades)

	case orderreaderv1.ActionCancel:
		return s.engine.CancelOrder(command.OrderID)

	case orderreaderv1.ActionChange:
		price, err := decimal.NewFromString(command.Price)
		if err != nil {
			return errors.NewTracer(string(errors.CommandParseError)).Wrap(err)
		}
		result, err := s.engine.ChangeOrder(command.OrderID, price, command.Quantity)
		if err != nil {
			return err
		}
		return s.publishTrades(ctx, result.Trades)

	default:
		return errors.NewTracer(string(errors.CommandUnknownAction)).Wrap(
			errors.NewErrorDetails("unknown order command action", string(errors.CommandUnknownAction), "action"),
		)
	}
}

// publishTrades emits one event per trade. A publish failure is logged and the
// remaining trades are still attempted; the book state already moved.
func (s *Service) publishTrades(ctx context.Context, trades []orderbookv1.Trade) error {
	var lastErr error
	for _, trade := range trades {
		event := &tradepublisherv1.TradeEvent{
			EventID:      ulid.Make().String(),
			Instrument:   s.instrument,
			Price:        trade.Price.StringFixed(2),
			Quantity:     trade.Quantity,
			MakerOrderID: trade.MakerID,
			TakerOrderID: trade.TakerID,
			Timestamp:    time.Now().UnixNano(),
		}
		if err := s.tradePublisher.PublishTrade(ctx, event); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
