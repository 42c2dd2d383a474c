package orderbookv1

import "github.com/shopspring/decimal"

// Trade represents one execution produced while matching an incoming order.
// Price is always the resting (maker) order's price. TakerID is zero when the
// taker was a market order, which never receives an id.
type Trade struct {
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
	MakerID  uint64          `json:"makerID"`
	TakerID  uint64          `json:"takerID,omitempty"`
}
