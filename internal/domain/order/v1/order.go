package orderv1

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidFill is returned when a fill amount is not positive or exceeds
	// the order's remaining quantity.
	ErrInvalidFill = errors.New("fill exceeds remaining quantity")
	// ErrNotActive is returned when mutating an order that already reached a
	// terminal status.
	ErrNotActive = errors.New("order is not active")
)

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy represents a buy (bid) order.
	SideBuy Side = "buy"
	// SideSell represents a sell (ask) order.
	SideSell Side = "sell"
)

// Opposite returns the other side of the book.
func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// Status represents the lifecycle state of an order. Transitions are
// active -> executed and active -> cancelled only; terminal states are final.
type Status string

const (
	// StatusActive marks an order that is resting in the book or in-flight.
	StatusActive Status = "active"
	// StatusExecuted marks an order whose quantity reached zero through fills.
	StatusExecuted Status = "executed"
	// StatusCancelled marks an order withdrawn before it fully filled.
	StatusCancelled Status = "cancelled"
)

// Order represents a single order with immutable identity and mutable state.
// The book owns every Order it creates; no other component mutates one.
type Order struct {
	ID       uint64
	Side     Side
	Price    decimal.Decimal
	Quantity int64
	Sequence uint64
	Status   Status
}

// New creates an active order. Sequence is assigned by the book at the moment
// the order is created or re-created, and is the time-priority tie-break
// within a price level.
func New(id uint64, side Side, price decimal.Decimal, quantity int64, sequence uint64) *Order {
	return &Order{
		ID:       id,
		Side:     side,
		Price:    price,
		Quantity: quantity,
		Sequence: sequence,
		Status:   StatusActive,
	}
}

// IsActive reports whether the order may still rest or match.
func (o *Order) IsActive() bool {
	return o.Status == StatusActive
}

// IsBuy reports whether the order is on the bid side.
func (o *Order) IsBuy() bool {
	return o.Side == SideBuy
}

// Fill reduces the remaining quantity by the given amount. Reaching zero
// transitions the order to executed; quantity is never observable below zero.
func (o *Order) Fill(by int64) error {
	if !o.IsActive() {
		return fmt.Errorf("%w: %s", ErrNotActive, o.Status)
	}
	if by <= 0 || by > o.Quantity {
		return fmt.Errorf("%w: fill %d, remaining %d", ErrInvalidFill, by, o.Quantity)
	}

	o.Quantity -= by
	if o.Quantity == 0 {
		o.Status = StatusExecuted
	}
	return nil
}

// Cancel transitions an active order to cancelled.
func (o *Order) Cancel() error {
	if !o.IsActive() {
		return fmt.Errorf("%w: %s", ErrNotActive, o.Status)
	}
	o.Status = StatusCancelled
	return nil
}
