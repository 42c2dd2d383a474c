package snapshotv1

// Entry is one displayable resting order in a book snapshot. Price is the
// fixed-point decimal rendered with two fractional digits.
type Entry struct {
	Quantity int64  `json:"quantity"`
	Price    string `json:"price"`
	ID       uint64 `json:"id"`
}

// BookSnapshot is a read-only, point-in-time view of the active book: bids
// sorted price-descending then sequence-ascending, asks price-ascending then
// sequence-ascending.
type BookSnapshot struct {
	Instrument string  `json:"instrument"`
	Bids       []Entry `json:"bids"`
	Asks       []Entry `json:"asks"`
	TakenAt    int64   `json:"takenAt"`
}
