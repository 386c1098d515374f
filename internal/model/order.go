package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus reflects how much of an order's quantity has been matched.
type OrderStatus int

const (
	Open OrderStatus = iota
	PartiallyFilled
	Filled
)

func (s OrderStatus) String() string {
	switch s {
	case Open:
		return "OPEN"
	case PartiallyFilled:
		return "PARTIALLY_FILLED"
	case Filled:
		return "FILLED"
	default:
		return "UNKNOWN"
	}
}

// Order is the immutable-identity, mutable-fill record the rest of the
// engine operates on. Everything but Filled and Status is fixed at
// creation; CreatedAt is the sole tie-breaker for price-time priority.
type Order struct {
	ID        int64           `json:"id"`
	Side      Side            `json:"side"`
	Type      OrderType       `json:"type"`
	Status    OrderStatus     `json:"status"`
	Price     decimal.Decimal `json:"price"`
	Quantity  decimal.Decimal `json:"quantity"`
	Filled    decimal.Decimal `json:"filled"`
	CreatedAt int64           `json:"created_at"`
}

// Open constructs a freshly-accepted order: status Open, filled zero,
// created_at taken from the wall clock at the nanosecond. id is supplied
// by the caller. Replayed orders do not pass through Open: they are
// decoded from the log with their original id and created_at (see
// internal/wal).
func Open(id int64, side Side, orderType OrderType, price, quantity decimal.Decimal) Order {
	return Order{
		ID:        id,
		Side:      side,
		Type:      orderType,
		Status:    Open,
		Price:     price,
		Quantity:  quantity,
		Filled:    decimal.Zero,
		CreatedAt: time.Now().UnixNano(),
	}
}

// Unfilled returns the remaining, unmatched quantity.
func (o Order) Unfilled() decimal.Decimal {
	return o.Quantity.Sub(o.Filled)
}

// IsFilled reports whether the order has no remaining quantity.
func (o Order) IsFilled() bool {
	return o.Status == Filled
}

// Crosses reports whether this order is willing to trade at otherPrice.
// Market orders cross any resting opposite liquidity; Limit orders cross
// only at equal-or-better prices for their side.
func (o Order) Crosses(otherPrice decimal.Decimal) bool {
	if o.Type == Market {
		return true
	}
	switch o.Side {
	case Buy:
		return o.Price.GreaterThanOrEqual(otherPrice)
	case Sell:
		return o.Price.LessThanOrEqual(otherPrice)
	default:
		return false
	}
}

// CanBeFilledBy reports whether other is an eligible maker for this order.
// Same-side orders never match. Two Market orders never match, since
// neither carries a reference price.
func (o Order) CanBeFilledBy(other Order) bool {
	if o.Side == other.Side {
		return false
	}
	if o.Type == Market {
		return other.Type == Limit
	}
	return o.Crosses(other.Price)
}

// Fill applies an incoming fill request, returning the quantity actually
// used (min(request, unfilled)). Status transitions to Filled when fully
// consumed, else PartiallyFilled.
func (o *Order) Fill(request decimal.Decimal) decimal.Decimal {
	remaining := o.Unfilled()
	used := decimal.Min(request, remaining)

	if used.Equal(remaining) {
		o.Filled = o.Quantity
		o.Status = Filled
	} else {
		o.Filled = o.Filled.Add(used)
		o.Status = PartiallyFilled
	}

	return used
}

// Residual returns a copy of o carrying only its unfilled quantity, used
// when a partially-filled Limit order is placed back on the book. ID and
// CreatedAt (time priority) are preserved.
func (o Order) Residual() Order {
	r := o
	r.Quantity = o.Unfilled()
	r.Filled = decimal.Zero
	r.Status = Open
	return r
}
