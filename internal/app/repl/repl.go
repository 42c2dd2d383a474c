package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/decarv/ome/internal/app/engine"
	orderv1 "github.com/decarv/ome/internal/domain/order/v1"
	orderbookv1 "github.com/decarv/ome/internal/domain/orderbook/v1"
	"github.com/decarv/ome/pkg/logger"
	"github.com/shopspring/decimal"
)

// User-facing messages. The wording is part of the interface: front-end
// scripts grep for these lines.
const (
	helloMessage = "ome - a single-instrument order matching engine\n" +
		"Type \"help\" to print commands."
	parsingErrorMessage    = "Error: Parsing error."
	inactiveOrderMessage   = "Error: This order was executed or cancelled."
	inexistentOrderMessage = "Error: This order does not exist."
	emptyOrderMessage      = "Error: You cannot create or change an order to trade 0 shares."
	noLiquidityMessage     = "Order not executed due to no liquidity."
	orderCancelledMessage  = "Order cancelled."
	exitMessage            = "Exiting."
	helpMessage            = "\n" +
		"Commands:\n" +
		"      limit <buy|sell> <price> <quantity>     places a limit order\n" +
		"      market <buy|sell> <quantity>            places a market order\n" +
		"      cancel order <id>                       cancels an order\n" +
		"      change order <id> <price> <quantity>    changes an order\n" +
		"      print book                              prints the book of orders\n" +
		"      help                                    displays this message\n" +
		"      exit                                    exits the engine\n"
)

// REPL is the interactive front end: it parses one command per line, applies
// it through the engine and prints the outcome.
type REPL struct {
	engine *engine.Engine
	in     io.Reader
	out    io.Writer
	logger *logger.Logger
}

// New creates a REPL reading commands from in and writing results to out.
func New(eng *engine.Engine, in io.Reader, out io.Writer, log *logger.Logger) *REPL {
	return &REPL{
		engine: eng,
		in:     in,
		out:    out,
		logger: log,
	}
}

// Run reads commands until exit, EOF, or context cancellation.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, helloMessage)

	scanner := bufio.NewScanner(r.in)
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		fmt.Fprint(r.out, ">>> ")
		if !scanner.Scan() {
			fmt.Fprintln(r.out, exitMessage)
			return scanner.Err()
		}

		output, done := r.Execute(scanner.Text())
		fmt.Fprintln(r.out, output)
		if done {
			return nil
		}
	}
}

// Execute parses and applies one command line. The second return value is
// true when the command asks the loop to stop.
func (r *REPL) Execute(line string) (string, bool) {
	args := strings.Fields(line)

	switch {
	case len(args) == 4 && args[0] == "limit":
		return r.placeLimit(args[1], args[2], args[3]), false
	case len(args) == 3 && args[0] == "market":
		return r.placeMarket(args[1], args[2]), false
	case len(args) == 3 && args[0] == "cancel" && args[1] == "order":
		return r.cancelOrder(args[2]), false
	case len(args) == 5 && args[0] == "change" && args[1] == "order":
		return r.changeOrder(args[2], args[3], args[4]), false
	case len(args) == 2 && args[0] == "print" && args[1] == "book":
		return renderBook(r.engine.Snapshot()), false
	case len(args) == 1 && args[0] == "help":
		return helpMessage, false
	case len(args) == 1 && args[0] == "exit":
		return exitMessage, true
	default:
		return parsingErrorMessage, false
	}
}

func (r *REPL) placeLimit(rawSide, rawPrice, rawQuantity string) string {
	side, err := parseSide(rawSide)
	if err != nil {
		return parsingErrorMessage
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return parsingErrorMessage
	}
	quantity, err := strconv.ParseInt(rawQuantity, 10, 64)
	if err != nil {
		return parsingErrorMessage
	}
	if quantity == 0 {
		return emptyOrderMessage
	}

	result, err := r.engine.PlaceLimitOrder(side, price, quantity)
	if err != nil {
		return renderError(err)
	}

	var lines []string
	for _, trade := range result.Trades {
		lines = append(lines, renderTrade(trade))
	}
	if result.Order.Status == orderv1.StatusActive || len(lines) == 0 {
		lines = append(lines, "Order created: "+renderOrder(result.Order))
	}
	return strings.Join(lines, "\n")
}

func (r *REPL) placeMarket(rawSide, rawQuantity string) string {
	side, err := parseSide(rawSide)
	if err != nil {
		return parsingErrorMessage
	}
	quantity, err := strconv.ParseInt(rawQuantity, 10, 64)
	if err != nil {
		return parsingErrorMessage
	}
	if quantity == 0 {
		return emptyOrderMessage
	}

	result, err := r.engine.PlaceMarketOrder(side, quantity)
	if err != nil {
		return renderError(err)
	}
	if len(result.Trades) == 0 {
		return noLiquidityMessage
	}

	var lines []string
	for _, trade := range result.Trades {
		lines = append(lines, renderTrade(trade))
	}
	return strings.Join(lines, "\n")
}

func (r *REPL) cancelOrder(rawID string) string {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return parsingErrorMessage
	}

	if err := r.engine.CancelOrder(id); err != nil {
		return renderError(err)
	}
	return orderCancelledMessage
}

func (r *REPL) changeOrder(rawID, rawPrice, rawQuantity string) string {
	id, err := strconv.ParseUint(rawID, 10, 64)
	if err != nil {
		return parsingErrorMessage
	}
	price, err := decimal.NewFromString(rawPrice)
	if err != nil {
		return parsingErrorMessage
	}
	quantity, err := strconv.ParseInt(rawQuantity, 10, 64)
	if err != nil {
		return parsingErrorMessage
	}
	if quantity == 0 {
		return emptyOrderMessage
	}

	result, err := r.engine.ChangeOrder(id, price, quantity)
	if err != nil {
		return renderError(err)
	}

	var lines []string
	for _, trade := range result.Trades {
		lines = append(lines, renderTrade(trade))
	}
	if result.Order.Status == orderv1.StatusActive || len(lines) == 0 {
		lines = append(lines, "Order changed. New order: "+renderOrder(result.Order))
	}
	return strings.Join(lines, "\n")
}

func parseSide(raw string) (orderv1.Side, error) {
	switch raw {
	case "buy":
		return orderv1.SideBuy, nil
	case "sell":
		return orderv1.SideSell, nil
	default:
		return "", errors.New("unknown side")
	}
}

// renderError maps book errors to the user-facing message vocabulary.
func renderError(err error) string {
	switch {
	case errors.Is(err, orderbookv1.ErrUnknownOrder):
		return inexistentOrderMessage
	case errors.Is(err, orderbookv1.ErrOrderNotActive):
		return inactiveOrderMessage
	case errors.Is(err, orderbookv1.ErrInvalidQuantity):
		return emptyOrderMessage
	case errors.Is(err, orderbookv1.ErrInvalidPrice):
		return parsingErrorMessage
	default:
		return "Error: " + err.Error()
	}
}
