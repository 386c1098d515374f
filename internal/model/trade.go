package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade is an immutable execution record. Price is always the maker's
// resting price; Quantity is always the amount actually used to fill the
// maker, never the maker's original order quantity.
type Trade struct {
	Price       decimal.Decimal `json:"price"`
	Quantity    decimal.Decimal `json:"quantity"`
	BuyOrderID  int64           `json:"buy_order_id"`
	SellOrderID int64           `json:"sell_order_id"`
	ExecutedAt  int64           `json:"executed_at"`
}

// NewTrade records a fill between a taker and a maker at the maker's
// price. buyOrderID/sellOrderID are selected by the taker's side.
func NewTrade(price, quantity decimal.Decimal, buyOrderID, sellOrderID int64) Trade {
	return Trade{
		Price:       price,
		Quantity:    quantity,
		BuyOrderID:  buyOrderID,
		SellOrderID: sellOrderID,
		ExecutedAt:  time.Now().UnixNano(),
	}
}
