package orderbookv1

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"

	orderv1 "github.com/decarv/ome/internal/domain/order/v1"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPrice is returned for a non-positive limit price. Raised before
	// any state mutation.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidQuantity is returned for a non-positive quantity. Raised before
	// any state mutation.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrUnknownOrder is returned when an id was never issued by this book.
	ErrUnknownOrder = errors.New("order does not exist")
	// ErrOrderNotActive is returned when the order was already executed or cancelled.
	ErrOrderNotActive = errors.New("order already executed or cancelled")
	// ErrDuplicateOrder is returned when an id is placed twice.
	ErrDuplicateOrder = errors.New("order id already issued")
)

// Book is the matching core for a single instrument: two priority-ordered
// side queues plus an identity index over every order ever issued. It is not
// safe for concurrent use; callers serialize mutations through one gate.
type Book struct {
	bids  *sideQueue
	asks  *sideQueue
	index map[uint64]*orderv1.Order

	// seq is bumped every time an order enters (or re-enters) matching, so a
	// changed order always forfeits its former time priority.
	seq uint64
}

// NewBook creates a new empty book.
func NewBook() *Book {
	return &Book{
		bids:  newSideQueue(orderv1.SideBuy),
		asks:  newSideQueue(orderv1.SideSell),
		index: make(map[uint64]*orderv1.Order),
	}
}

// PlaceLimit creates an order under the given id and matches it against the
// opposite side before letting it rest. It returns the order in its terminal
// state for this call (active and resting, or executed) together with the
// trades produced while matching.
func (b *Book) PlaceLimit(id uint64, side orderv1.Side, price decimal.Decimal, quantity int64) (*orderv1.Order, []Trade, error) {
	if !price.IsPositive() {
		return nil, nil, fmt.Errorf("%w: got %s", ErrInvalidPrice, price)
	}
	if quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if _, exists := b.index[id]; exists {
		return nil, nil, fmt.Errorf("%w: id %d", ErrDuplicateOrder, id)
	}

	order := orderv1.New(id, side, price, quantity, b.nextSequence())
	trades := b.match(order, false)

	if order.Quantity > 0 {
		heap.Push(b.sideOf(side), order)
	}
	b.index[id] = order

	return order, trades, nil
}

// PlaceMarket matches the given quantity against the opposite side until it
// is exhausted or the book runs out of liquidity. A market order never rests:
// the unfilled remainder is discarded and no order record is created.
func (b *Book) PlaceMarket(side orderv1.Side, quantity int64) (trades []Trade, filled, remaining int64, err error) {
	if quantity <= 0 {
		return nil, 0, 0, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	// The transient taker carries no id and never touches the index.
	taker := orderv1.New(0, side, decimal.Zero, quantity, 0)
	trades = b.match(taker, true)

	remaining = taker.Quantity
	return trades, quantity - remaining, remaining, nil
}

// Cancel transitions an active order to cancelled. The heap entry is left in
// place and discarded lazily when it reaches the top of its queue.
func (b *Book) Cancel(id uint64) error {
	order, ok := b.index[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownOrder, id)
	}
	if !order.IsActive() {
		return fmt.Errorf("%w: id %d", ErrOrderNotActive, id)
	}
	return order.Cancel()
}

// Change withdraws the order's resting state and re-runs limit matching with
// the same id, the new price and quantity, and a fresh sequence. Any change
// forfeits the order's former time priority; trades produced here are priced
// at the opposing resting orders' prices, never at the new price.
func (b *Book) Change(id uint64, price decimal.Decimal, quantity int64) (*orderv1.Order, []Trade, error) {
	if !price.IsPositive() {
		return nil, nil, fmt.Errorf("%w: got %s", ErrInvalidPrice, price)
	}
	if quantity <= 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	withdrawn, ok := b.index[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: id %d", ErrUnknownOrder, id)
	}
	if !withdrawn.IsActive() {
		return nil, nil, fmt.Errorf("%w: id %d", ErrOrderNotActive, id)
	}

	// The old record stays in its heap as a stale entry; marking it cancelled
	// makes the peek-time staleness check discard it.
	if err := withdrawn.Cancel(); err != nil {
		return nil, nil, err
	}

	replacement := orderv1.New(id, withdrawn.Side, price, quantity, b.nextSequence())
	trades := b.match(replacement, false)

	if replacement.Quantity > 0 {
		heap.Push(b.sideOf(replacement.Side), replacement)
	}
	b.index[id] = replacement

	return replacement, trades, nil
}

// Bids returns the active buy orders in descending-price, ascending-sequence order.
func (b *Book) Bids() []*orderv1.Order {
	return b.depth(b.bids)
}

// Asks returns the active sell orders in ascending-price, ascending-sequence order.
func (b *Book) Asks() []*orderv1.Order {
	return b.depth(b.asks)
}

// Lookup returns the current record for an id, in any status.
func (b *Book) Lookup(id uint64) (*orderv1.Order, bool) {
	order, ok := b.index[id]
	return order, ok
}

// match runs the taker against the opposite side queue until the taker is
// filled, prices stop crossing, or liquidity runs out. Stale heap entries
// surfacing at the top are discarded here, never matched.
func (b *Book) match(taker *orderv1.Order, isMarket bool) []Trade {
	opposite := b.sideOf(taker.Side.Opposite())

	var trades []Trade
	for taker.Quantity > 0 {
		maker := opposite.peek()
		if maker == nil {
			break
		}
		if !maker.IsActive() {
			heap.Pop(opposite)
			continue
		}
		if !isMarket && !crosses(taker, maker) {
			break
		}

		quantity := taker.Quantity
		if maker.Quantity < quantity {
			quantity = maker.Quantity
		}

		// Neither fill can fail: quantity is positive and bounded by both sides.
		_ = taker.Fill(quantity)
		_ = maker.Fill(quantity)

		trades = append(trades, Trade{
			Price:    maker.Price,
			Quantity: quantity,
			MakerID:  maker.ID,
			TakerID:  taker.ID,
		})

		if !maker.IsActive() {
			heap.Pop(opposite)
		}
	}
	return trades
}

// crosses reports whether the taker's limit price is compatible with the
// maker's resting price.
func crosses(taker, maker *orderv1.Order) bool {
	if taker.IsBuy() {
		return taker.Price.GreaterThanOrEqual(maker.Price)
	}
	return taker.Price.LessThanOrEqual(maker.Price)
}

func (b *Book) sideOf(side orderv1.Side) *sideQueue {
	if side == orderv1.SideBuy {
		return b.bids
	}
	return b.asks
}

func (b *Book) nextSequence() uint64 {
	b.seq++
	return b.seq
}

// depth copies the queue's active orders and sorts them into display order.
// The heap slice itself is only partially ordered, so this is O(n log n).
func (b *Book) depth(q *sideQueue) []*orderv1.Order {
	orders := make([]*orderv1.Order, 0, len(q.orders))
	for _, o := range q.orders {
		if o.IsActive() {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return q.before(orders[i], orders[j])
	})
	return orders
}
