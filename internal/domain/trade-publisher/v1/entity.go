package tradepublisherv1

// TradeEvent is one execution on the outbound trade feed. EventID is a ULID
// minted per event; TakerOrderID is zero when the taker was a market order.
type TradeEvent struct {
	EventID      string `json:"eventID"`
	Instrument   string `json:"instrument"`
	Price        string `json:"price"`
	Quantity     int64  `json:"quantity"`
	MakerOrderID uint64 `json:"makerOrderID"`
	TakerOrderID uint64 `json:"takerOrderID,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}
