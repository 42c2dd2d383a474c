package engine

import (
	"sync"
	"time"

	orderv1 "github.com/decarv/ome/internal/domain/order/v1"
	orderbookv1 "github.com/decarv/ome/internal/domain/orderbook/v1"
	snapshotv1 "github.com/decarv/ome/internal/domain/snapshot/v1"
	"github.com/decarv/ome/pkg/logger"
	"github.com/shopspring/decimal"
)

// displayPrecision is the number of fractional digits every price surface renders.
const displayPrecision = 2

// Engine is the façade in front of the book: it owns the order-id counter,
// dispatches the four mutating operations and the snapshot query, and
// serializes every call through a single gate. It performs no matching logic
// itself.
type Engine struct {
	mu   sync.Mutex
	book *orderbookv1.Book

	// nextID starts at 1 and is advanced only on successful order creation;
	// ids are never reused, not even after cancellation.
	nextID uint64

	instrument string
	logger     *logger.Logger
}

// NewEngine creates an engine around an empty book for one instrument.
func NewEngine(book *orderbookv1.Book, log *logger.Logger, instrument string) *Engine {
	return &Engine{
		book:       book,
		nextID:     1,
		instrument: instrument,
		logger:     log,
	}
}

// OrderState is the caller-facing copy of an order's state at the end of an
// operation. It never aliases book-owned memory.
type OrderState struct {
	ID       uint64
	Side     orderv1.Side
	Price    decimal.Decimal
	Quantity int64
	Status   orderv1.Status
}

// PlaceResult is the outcome of a limit placement or a change: the order's
// resulting state plus the trades produced while matching.
type PlaceResult struct {
	Order  OrderState
	Trades []orderbookv1.Trade
}

// MarketResult is the outcome of a market placement. The remainder is
// discarded liquidity, not an order.
type MarketResult struct {
	Trades    []orderbookv1.Trade
	Filled    int64
	Remaining int64
}

// PlaceLimitOrder mints a new id and places a limit order. The id counter
// does not advance when validation fails.
func (e *Engine) PlaceLimitOrder(side orderv1.Side, price decimal.Decimal, quantity int64) (*PlaceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, trades, err := e.book.PlaceLimit(e.nextID, side, price, quantity)
	if err != nil {
		return nil, err
	}
	e.nextID++

	e.logger.Info("limit order placed",
		logger.Field{Key: "instrument", Value: e.instrument},
		logger.Field{Key: "orderID", Value: order.ID},
		logger.Field{Key: "side", Value: order.Side},
		logger.Field{Key: "price", Value: price.StringFixed(displayPrecision)},
		logger.Field{Key: "status", Value: order.Status},
	)
	e.logTrades(trades)

	return &PlaceResult{Order: stateOf(order), Trades: trades}, nil
}

// PlaceMarketOrder matches the given quantity against the book. Market orders
// never rest and receive no id; the unfilled remainder is reported and dropped.
func (e *Engine) PlaceMarketOrder(side orderv1.Side, quantity int64) (*MarketResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	trades, filled, remaining, err := e.book.PlaceMarket(side, quantity)
	if err != nil {
		return nil, err
	}

	e.logger.Info("market order placed",
		logger.Field{Key: "instrument", Value: e.instrument},
		logger.Field{Key: "side", Value: side},
		logger.Field{Key: "filled", Value: filled},
		logger.Field{Key: "remaining", Value: remaining},
	)
	e.logTrades(trades)

	return &MarketResult{Trades: trades, Filled: filled, Remaining: remaining}, nil
}

// CancelOrder cancels an active order by id.
func (e *Engine) CancelOrder(id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.book.Cancel(id); err != nil {
		return err
	}

	e.logger.Info("order cancelled",
		logger.Field{Key: "instrument", Value: e.instrument},
		logger.Field{Key: "orderID", Value: id},
	)
	return nil
}

// ChangeOrder rewrites an active order's price and quantity, keeping its id
// but forfeiting its time priority.
func (e *Engine) ChangeOrder(id uint64, price decimal.Decimal, quantity int64) (*PlaceResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	order, trades, err := e.book.Change(id, price, quantity)
	if err != nil {
		return nil, err
	}

	e.logger.Info("order changed",
		logger.Field{Key: "instrument", Value: e.instrument},
		logger.Field{Key: "orderID", Value: id},
		logger.Field{Key: "price", Value: price.StringFixed(displayPrecision)},
		logger.Field{Key: "quantity", Value: quantity},
		logger.Field{Key: "status", Value: order.Status},
	)
	e.logTrades(trades)

	return &PlaceResult{Order: stateOf(order), Trades: trades}, nil
}

// Snapshot returns the ordered, display-ready view of the active book.
func (e *Engine) Snapshot() *snapshotv1.BookSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	return &snapshotv1.BookSnapshot{
		Instrument: e.instrument,
		Bids:       entriesOf(e.book.Bids()),
		Asks:       entriesOf(e.book.Asks()),
		TakenAt:    time.Now().UnixNano(),
	}
}

func (e *Engine) logTrades(trades []orderbookv1.Trade) {
	for _, trade := range trades {
		e.logger.Info("trade executed",
			logger.Field{Key: "instrument", Value: e.instrument},
			logger.Field{Key: "price", Value: trade.Price.StringFixed(displayPrecision)},
			logger.Field{Key: "quantity", Value: trade.Quantity},
			logger.Field{Key: "makerOrderID", Value: trade.MakerID},
			logger.Field{Key: "takerOrderID", Value: trade.TakerID},
		)
	}
}

func stateOf(order *orderv1.Order) OrderState {
	return OrderState{
		ID:       order.ID,
		Side:     order.Side,
		Price:    order.Price,
		Quantity: order.Quantity,
		Status:   order.Status,
	}
}

func entriesOf(orders []*orderv1.Order) []snapshotv1.Entry {
	entries := make([]snapshotv1.Entry, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, snapshotv1.Entry{
			Quantity: o.Quantity,
			Price:    o.Price.StringFixed(displayPrecision),
			ID:       o.ID,
		})
	}
	return entries
}
