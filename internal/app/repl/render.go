package repl

import (
	"fmt"
	"strings"

	"github.com/decarv/ome/internal/app/engine"
	orderbookv1 "github.com/decarv/ome/internal/domain/orderbook/v1"
	snapshotv1 "github.com/decarv/ome/internal/domain/snapshot/v1"
)

const (
	colWidth    = 21
	constOffset = 2
	fineOffset  = 2
)

func renderOrder(state engine.OrderState) string {
	return fmt.Sprintf("%s %d @ %s (%d)", state.Side, state.Quantity, state.Price.StringFixed(2), state.ID)
}

func renderTrade(trade orderbookv1.Trade) string {
	return fmt.Sprintf("Trade, price: %s, qty: %d", trade.Price.StringFixed(2), trade.Quantity)
}

func renderEntry(entry snapshotv1.Entry) string {
	return fmt.Sprintf("%d @ %s (%d)", entry.Quantity, entry.Price, entry.ID)
}

// renderBook lays the two sides out in columns aligned on the @ sign, best
// prices first:
//
//	     Buy Orders     |     Sell Orders
//	-------------------------------------------
//	   300 @ 10.01 (9)  |    200 @ 10.05 (10)
//	   100 @ 9.99 (7)   |    100 @ 10.07 (11)
//	   200 @ 9.98 (8)   |
func renderBook(snapshot *snapshotv1.BookSnapshot) string {
	header := "\n" +
		"        Buy Orders     |     Sell Orders     \n" +
		"  -------------------------------------------"

	buyColumn := make([]string, 0, len(snapshot.Bids))
	for _, entry := range snapshot.Bids {
		row := renderEntry(entry)
		atIdx := strings.Index(row, "@")
		left := colWidth/2 - atIdx + constOffset - fineOffset
		right := colWidth/2 - (len(row) - atIdx - 1) + fineOffset
		buyColumn = append(buyColumn, pad(left)+row+pad(right))
	}

	sellColumn := make([]string, 0, len(snapshot.Asks))
	for _, entry := range snapshot.Asks {
		row := renderEntry(entry)
		atIdx := strings.Index(row, "@")
		left := colWidth/2 - atIdx - constOffset
		sellColumn = append(sellColumn, pad(left)+row)
	}

	for len(buyColumn) < len(sellColumn) {
		buyColumn = append(buyColumn, pad(colWidth+constOffset))
	}
	for len(buyColumn) > len(sellColumn) {
		sellColumn = append(sellColumn, pad(colWidth))
	}

	var body strings.Builder
	for i := range buyColumn {
		body.WriteString("\n")
		body.WriteString(buyColumn[i])
		body.WriteString("|")
		body.WriteString(sellColumn[i])
	}
	body.WriteString("\n")
	return header + body.String()
}

func pad(n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(" ", n)
}
