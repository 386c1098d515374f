package model

import "github.com/shopspring/decimal"

// PriceLevel is one rung of the public, aggregated order book: a price and
// the total resting quantity at that price. Quantity is always > 0 —
// zero-quantity levels are removed by OrderBook.Take.
type PriceLevel struct {
	Price    decimal.Decimal `json:"price"`
	Quantity decimal.Decimal `json:"quantity"`
}
