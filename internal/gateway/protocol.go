package gateway

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"matchd/internal/engine"
	"matchd/internal/model"
)

// ErrMalformed is the Input-malformed taxonomy error: the line could not be
// parsed into a Command. It never reaches internal/engine.
var ErrMalformed = errors.New("gateway: malformed request")

// parseCommand parses a single request line of the form
//
//	OPEN <side> <type> <price> <qty>
//
// price is ignored (but must still be a valid decimal) for MARKET orders.
func parseCommand(line string) (engine.Command, error) {
	fields := strings.Fields(line)
	if len(fields) != 5 || !strings.EqualFold(fields[0], "OPEN") {
		return engine.Command{}, fmt.Errorf("%w: expected \"OPEN <side> <type> <price> <qty>\"", ErrMalformed)
	}

	side, err := parseSide(fields[1])
	if err != nil {
		return engine.Command{}, err
	}
	orderType, err := parseOrderType(fields[2])
	if err != nil {
		return engine.Command{}, err
	}
	price, err := decimal.NewFromString(fields[3])
	if err != nil {
		return engine.Command{}, fmt.Errorf("%w: bad price %q", ErrMalformed, fields[3])
	}
	qty, err := decimal.NewFromString(fields[4])
	if err != nil {
		return engine.Command{}, fmt.Errorf("%w: bad quantity %q", ErrMalformed, fields[4])
	}
	if !qty.IsPositive() {
		return engine.Command{}, fmt.Errorf("%w: quantity must be positive, got %s", ErrMalformed, qty)
	}

	return engine.Command{Side: side, Type: orderType, Price: price, Quantity: qty}, nil
}

func parseSide(s string) (model.Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return model.Buy, nil
	case "SELL":
		return model.Sell, nil
	default:
		return 0, fmt.Errorf("%w: unknown side %q", ErrMalformed, s)
	}
}

func parseOrderType(s string) (model.OrderType, error) {
	switch strings.ToUpper(s) {
	case "LIMIT":
		return model.Limit, nil
	case "MARKET":
		return model.Market, nil
	default:
		return 0, fmt.Errorf("%w: unknown order type %q", ErrMalformed, s)
	}
}

// formatReply renders the reply line for a finalised order:
//
//	<id> <status> <filled>/<quantity>
func formatReply(order model.Order) string {
	return fmt.Sprintf("%d %s %s/%s\n", order.ID, order.Status, order.Filled, order.Quantity)
}

// formatError renders a rejected request as a single error reply line.
func formatError(err error) string {
	return fmt.Sprintf("ERROR %s\n", err)
}
