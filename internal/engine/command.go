package engine

import (
	"github.com/shopspring/decimal"

	"matchd/internal/model"
)

// Command is the external OpenOrder request: an engine-agnostic caller
// (the gateway, or any future front end) builds one of these and submits
// it to Engine.Submit. Price is ignored for Market orders.
type Command struct {
	Side     model.Side
	Type     model.OrderType
	Price    decimal.Decimal
	Quantity decimal.Decimal
}
