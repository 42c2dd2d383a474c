package orderbookv1

import (
	orderv1 "github.com/decarv/ome/internal/domain/order/v1"
)

// sideQueue is a binary heap of resting orders for one side of the book,
// ordered by most favorable price first, then lowest sequence. Cancelled and
// superseded orders stay in the heap until they surface at the top; the book
// discards them on peek (lazy deletion), which keeps cancellation O(1).
type sideQueue struct {
	side   orderv1.Side
	orders []*orderv1.Order
}

func newSideQueue(side orderv1.Side) *sideQueue {
	return &sideQueue{side: side}
}

// before reports whether a has strictly higher priority than b.
// Bids prefer higher prices, asks prefer lower; equal prices fall back to
// the earlier sequence.
func (q *sideQueue) before(a, b *orderv1.Order) bool {
	if !a.Price.Equal(b.Price) {
		if q.side == orderv1.SideBuy {
			return a.Price.GreaterThan(b.Price)
		}
		return a.Price.LessThan(b.Price)
	}
	return a.Sequence < b.Sequence
}

func (q *sideQueue) Len() int { return len(q.orders) }

func (q *sideQueue) Less(i, j int) bool { return q.before(q.orders[i], q.orders[j]) }

func (q *sideQueue) Swap(i, j int) { q.orders[i], q.orders[j] = q.orders[j], q.orders[i] }

func (q *sideQueue) Push(x any) { q.orders = append(q.orders, x.(*orderv1.Order)) }

func (q *sideQueue) Pop() any {
	old := q.orders
	n := len(old)
	o := old[n-1]
	old[n-1] = nil
	q.orders = old[:n-1]
	return o
}

// peek returns the highest-priority entry without removing it. The caller is
// responsible for the staleness check.
func (q *sideQueue) peek() *orderv1.Order {
	if len(q.orders) == 0 {
		return nil
	}
	return q.orders[0]
}
