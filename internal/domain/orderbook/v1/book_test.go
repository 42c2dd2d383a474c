package orderbookv1

import (
	"testing"

	orderv1 "github.com/decarv/ome/internal/domain/order/v1"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNewBook(t *testing.T) {
	book := NewBook()

	assert.NotNil(t, book)
	assert.Empty(t, book.Bids())
	assert.Empty(t, book.Asks())
}

func TestBook_PlaceLimit_Validation(t *testing.T) {
	book := NewBook()

	t.Run("non-positive price", func(t *testing.T) {
		_, _, err := book.PlaceLimit(1, orderv1.SideBuy, decimal.Zero, 100)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, _, err = book.PlaceLimit(1, orderv1.SideBuy, price(t, "-10.10"), 100)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("non-positive quantity", func(t *testing.T) {
		_, _, err := book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("validation leaves no trace in the book", func(t *testing.T) {
		assert.Empty(t, book.Bids())
		_, ok := book.Lookup(1)
		assert.False(t, ok)
	})

	t.Run("duplicate id", func(t *testing.T) {
		_, _, err := book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)
		require.NoError(t, err)

		_, _, err = book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)
		assert.ErrorIs(t, err, ErrDuplicateOrder)
	})
}

// Scenario: first order into an empty book rests untouched.
func TestBook_PlaceLimit_RestsOnEmptyBook(t *testing.T) {
	book := NewBook()

	order, trades, err := book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)

	require.NoError(t, err)
	assert.Empty(t, trades)
	assert.Equal(t, uint64(1), order.ID)
	assert.Equal(t, orderv1.StatusActive, order.Status)
	assert.Equal(t, int64(100), order.Quantity)

	bids := book.Bids()
	require.Len(t, bids, 1)
	assert.Equal(t, uint64(1), bids[0].ID)
	assert.True(t, bids[0].Price.Equal(price(t, "10.10")))
	assert.Empty(t, book.Asks())
}

// Scenario: an incoming sell partially fills the resting bid and never rests.
func TestBook_PlaceLimit_PartialFillOfRestingOrder(t *testing.T) {
	book := NewBook()

	resting, _, err := book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)
	require.NoError(t, err)

	incoming, trades, err := book.PlaceLimit(2, orderv1.SideSell, price(t, "10.10"), 40)
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.True(t, trades[0].Price.Equal(price(t, "10.10")))
	assert.Equal(t, int64(40), trades[0].Quantity)
	assert.Equal(t, uint64(1), trades[0].MakerID)
	assert.Equal(t, uint64(2), trades[0].TakerID)

	assert.Equal(t, int64(60), resting.Quantity)
	assert.Equal(t, orderv1.StatusActive, resting.Status)

	assert.Equal(t, orderv1.StatusExecuted, incoming.Status)
	assert.Equal(t, int64(0), incoming.Quantity)
	assert.Empty(t, book.Asks())
}

func TestBook_PlaceLimit_PartiallyFilledRemainderRests(t *testing.T) {
	book := NewBook()

	_, _, err := book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 40)
	require.NoError(t, err)

	incoming, trades, err := book.PlaceLimit(2, orderv1.SideSell, price(t, "10.05"), 100)
	require.NoError(t, err)

	require.Len(t, trades, 1)
	assert.Equal(t, int64(40), trades[0].Quantity)
	// Maker sets the execution price, even when the taker asked for less.
	assert.True(t, trades[0].Price.Equal(price(t, "10.10")))

	assert.Equal(t, orderv1.StatusActive, incoming.Status)
	assert.Equal(t, int64(60), incoming.Quantity)

	asks := book.Asks()
	require.Len(t, asks, 1)
	assert.Equal(t, uint64(2), asks[0].ID)
	assert.Empty(t, book.Bids())
}

func TestBook_PlaceLimit_NoCrossNoTrade(t *testing.T) {
	book := NewBook()

	_, _, err := book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.00"), 100)
	require.NoError(t, err)

	order, trades, err := book.PlaceLimit(2, orderv1.SideSell, price(t, "10.01"), 100)
	require.NoError(t, err)

	assert.Empty(t, trades)
	assert.Equal(t, orderv1.StatusActive, order.Status)
	assert.Len(t, book.Bids(), 1)
	assert.Len(t, book.Asks(), 1)
}

func TestBook_PriceTimePriority(t *testing.T) {
	t.Run("better price matches first", func(t *testing.T) {
		book := NewBook()

		book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)
		book.PlaceLimit(2, orderv1.SideBuy, price(t, "10.15"), 100)

		_, trades, err := book.PlaceLimit(3, orderv1.SideSell, price(t, "10.00"), 150)
		require.NoError(t, err)

		require.Len(t, trades, 2)
		assert.Equal(t, uint64(2), trades[0].MakerID)
		assert.True(t, trades[0].Price.Equal(price(t, "10.15")))
		assert.Equal(t, uint64(1), trades[1].MakerID)
		assert.Equal(t, int64(50), trades[1].Quantity)
	})

	t.Run("equal price falls back to earliest sequence", func(t *testing.T) {
		book := NewBook()

		book.PlaceLimit(1, orderv1.SideSell, price(t, "10.20"), 100)
		book.PlaceLimit(2, orderv1.SideSell, price(t, "10.20"), 100)

		_, trades, err := book.PlaceLimit(3, orderv1.SideBuy, price(t, "10.20"), 100)
		require.NoError(t, err)

		require.Len(t, trades, 1)
		assert.Equal(t, uint64(1), trades[0].MakerID)
	})
}

// Scenario: a market sell sweeps the bids in price priority and discards the rest.
func TestBook_PlaceMarket_SweepsBids(t *testing.T) {
	book := NewBook()

	book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)
	book.PlaceLimit(2, orderv1.SideBuy, price(t, "10.15"), 100)
	book.PlaceLimit(3, orderv1.SideBuy, price(t, "10.00"), 300)
	book.PlaceLimit(4, orderv1.SideSell, price(t, "10.20"), 200)

	trades, filled, remaining, err := book.PlaceMarket(orderv1.SideSell, 250)
	require.NoError(t, err)

	require.Len(t, trades, 3)
	assert.True(t, trades[0].Price.Equal(price(t, "10.15")))
	assert.Equal(t, int64(100), trades[0].Quantity)
	assert.True(t, trades[1].Price.Equal(price(t, "10.10")))
	assert.Equal(t, int64(100), trades[1].Quantity)
	assert.True(t, trades[2].Price.Equal(price(t, "10.00")))
	assert.Equal(t, int64(50), trades[2].Quantity)

	assert.Equal(t, int64(250), filled)
	assert.Equal(t, int64(0), remaining)

	bids := book.Bids()
	require.Len(t, bids, 1)
	assert.Equal(t, uint64(3), bids[0].ID)
	assert.Equal(t, int64(250), bids[0].Quantity)

	// The untouched ask side still holds order 4.
	require.Len(t, book.Asks(), 1)
}

func TestBook_PlaceMarket(t *testing.T) {
	t.Run("non-positive quantity", func(t *testing.T) {
		book := NewBook()
		_, _, _, err := book.PlaceMarket(orderv1.SideBuy, 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("empty book fills nothing", func(t *testing.T) {
		book := NewBook()

		trades, filled, remaining, err := book.PlaceMarket(orderv1.SideBuy, 100)

		require.NoError(t, err)
		assert.Empty(t, trades)
		assert.Equal(t, int64(0), filled)
		assert.Equal(t, int64(100), remaining)
	})

	t.Run("unfilled remainder never rests", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideSell, price(t, "10.20"), 30)

		trades, filled, remaining, err := book.PlaceMarket(orderv1.SideBuy, 100)

		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, int64(30), filled)
		assert.Equal(t, int64(70), remaining)
		assert.Empty(t, book.Bids())
		assert.Empty(t, book.Asks())
	})

	t.Run("market order ignores limit crossing", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideSell, price(t, "99.99"), 10)

		trades, _, _, err := book.PlaceMarket(orderv1.SideBuy, 10)

		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.True(t, trades[0].Price.Equal(price(t, "99.99")))
	})
}

func TestBook_Cancel(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		book := NewBook()
		assert.ErrorIs(t, book.Cancel(42), ErrUnknownOrder)
	})

	t.Run("cancel removes the order from matching", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideSell, price(t, "10.20"), 100)
		book.PlaceLimit(2, orderv1.SideSell, price(t, "10.25"), 100)

		require.NoError(t, book.Cancel(1))

		asks := book.Asks()
		require.Len(t, asks, 1)
		assert.Equal(t, uint64(2), asks[0].ID)

		// The stale heap entry for order 1 must be skipped, not matched.
		_, trades, err := book.PlaceLimit(3, orderv1.SideBuy, price(t, "10.25"), 100)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, uint64(2), trades[0].MakerID)
		assert.True(t, trades[0].Price.Equal(price(t, "10.25")))
	})

	t.Run("second cancel is rejected", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)

		require.NoError(t, book.Cancel(1))
		assert.ErrorIs(t, book.Cancel(1), ErrOrderNotActive)
	})

	t.Run("cancel of an executed order is rejected", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)
		_, _, err := book.PlaceLimit(2, orderv1.SideSell, price(t, "10.10"), 100)
		require.NoError(t, err)

		assert.ErrorIs(t, book.Cancel(1), ErrOrderNotActive)
	})
}

func TestBook_Change(t *testing.T) {
	t.Run("unknown id", func(t *testing.T) {
		book := NewBook()
		_, _, err := book.Change(42, price(t, "10.10"), 100)
		assert.ErrorIs(t, err, ErrUnknownOrder)
	})

	t.Run("invalid arguments leave the order untouched", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)

		_, _, err := book.Change(1, decimal.Zero, 100)
		assert.ErrorIs(t, err, ErrInvalidPrice)
		_, _, err = book.Change(1, price(t, "10.10"), 0)
		assert.ErrorIs(t, err, ErrInvalidQuantity)

		order, ok := book.Lookup(1)
		require.True(t, ok)
		assert.Equal(t, orderv1.StatusActive, order.Status)
		assert.Equal(t, int64(100), order.Quantity)
	})

	t.Run("change keeps id and forfeits time priority", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideSell, price(t, "10.20"), 100)
		book.PlaceLimit(2, orderv1.SideSell, price(t, "10.20"), 100)

		// Order 1 was first at the level; after the change it queues behind 2.
		changed, trades, err := book.Change(1, price(t, "10.20"), 100)
		require.NoError(t, err)
		assert.Empty(t, trades)
		assert.Equal(t, uint64(1), changed.ID)

		_, trades, err = book.PlaceLimit(3, orderv1.SideBuy, price(t, "10.20"), 100)
		require.NoError(t, err)
		require.Len(t, trades, 1)
		assert.Equal(t, uint64(2), trades[0].MakerID)
	})

	// Scenario: a price-favorable change crosses the book and fills at the
	// resting bid's price.
	t.Run("favorable price change triggers fills at resting price", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(3, orderv1.SideBuy, price(t, "10.19"), 250)
		book.PlaceLimit(4, orderv1.SideSell, price(t, "10.20"), 100)

		changed, trades, err := book.Change(4, price(t, "10.18"), 200)
		require.NoError(t, err)

		require.Len(t, trades, 1)
		assert.True(t, trades[0].Price.Equal(price(t, "10.19")))
		assert.Equal(t, int64(200), trades[0].Quantity)
		assert.Equal(t, uint64(3), trades[0].MakerID)
		assert.Equal(t, uint64(4), trades[0].TakerID)

		assert.Equal(t, orderv1.StatusExecuted, changed.Status)
		assert.Equal(t, int64(0), changed.Quantity)
		assert.Empty(t, book.Asks())

		bids := book.Bids()
		require.Len(t, bids, 1)
		assert.Equal(t, int64(50), bids[0].Quantity)
	})

	t.Run("change of a cancelled order is rejected", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)
		require.NoError(t, book.Cancel(1))

		_, _, err := book.Change(1, price(t, "10.11"), 100)
		assert.ErrorIs(t, err, ErrOrderNotActive)
	})

	t.Run("changed remainder rests with the new price", func(t *testing.T) {
		book := NewBook()
		book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.10"), 100)

		changed, trades, err := book.Change(1, price(t, "10.12"), 60)
		require.NoError(t, err)

		assert.Empty(t, trades)
		assert.Equal(t, orderv1.StatusActive, changed.Status)

		bids := book.Bids()
		require.Len(t, bids, 1)
		assert.True(t, bids[0].Price.Equal(price(t, "10.12")))
		assert.Equal(t, int64(60), bids[0].Quantity)
	})
}

// Conservation: quantity removed from the taker equals quantity removed from
// the makers, across a sweep with partial fills.
func TestBook_Conservation(t *testing.T) {
	book := NewBook()

	makers := []int64{70, 30, 120, 55}
	for i, qty := range makers {
		_, _, err := book.PlaceLimit(uint64(i+1), orderv1.SideSell, price(t, "10.20"), qty)
		require.NoError(t, err)
	}

	taker, trades, err := book.PlaceLimit(9, orderv1.SideBuy, price(t, "10.20"), 200)
	require.NoError(t, err)

	var traded int64
	for _, trade := range trades {
		traded += trade.Quantity
	}
	assert.Equal(t, int64(200), traded)
	assert.Equal(t, int64(0), taker.Quantity)

	var restingTotal int64
	for _, o := range book.Asks() {
		restingTotal += o.Quantity
	}
	assert.Equal(t, int64(275-200), restingTotal)
}

func TestBook_DepthOrdering(t *testing.T) {
	book := NewBook()

	book.PlaceLimit(1, orderv1.SideBuy, price(t, "10.00"), 100)
	book.PlaceLimit(2, orderv1.SideBuy, price(t, "10.15"), 100)
	book.PlaceLimit(3, orderv1.SideBuy, price(t, "10.15"), 50)
	book.PlaceLimit(4, orderv1.SideSell, price(t, "10.30"), 100)
	book.PlaceLimit(5, orderv1.SideSell, price(t, "10.20"), 100)

	bids := book.Bids()
	require.Len(t, bids, 3)
	assert.Equal(t, []uint64{2, 3, 1}, []uint64{bids[0].ID, bids[1].ID, bids[2].ID})

	asks := book.Asks()
	require.Len(t, asks, 2)
	assert.Equal(t, []uint64{5, 4}, []uint64{asks[0].ID, asks[1].ID})
}
