package orderreaderv1

import (
	orderv1 "github.com/decarv/ome/internal/domain/order/v1"
)

// Action identifies which of the four mutating book operations a command requests.
type Action string

const (
	// ActionPlaceLimit places a limit order.
	ActionPlaceLimit Action = "place_limit"
	// ActionPlaceMarket places a market order.
	ActionPlaceMarket Action = "place_market"
	// ActionCancel cancels a resting order by id.
	ActionCancel Action = "cancel"
	// ActionChange rewrites a resting order's price and quantity.
	ActionChange Action = "change"
)

// OrderCommand is one decoded command from the order topic. Price travels as
// a decimal string so the wire never carries binary floating point.
type OrderCommand struct {
	Action   Action       `json:"action"`
	Side     orderv1.Side `json:"side,omitempty"`
	Price    string       `json:"price,omitempty"`
	Quantity int64        `json:"quantity,omitempty"`
	OrderID  uint64       `json:"orderID,omitempty"`
}
