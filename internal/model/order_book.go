package model

import "github.com/shopspring/decimal"

// OrderBook is the public aggregated view of resting liquidity: two price
// vectors (bids descending, asks ascending) plus the last traded price.
// Unlike BookSide, it never observes individual orders — only a
// (side, price, quantity) triple per place/take call — and is expected to
// stay narrow enough that the linear scans below are cheaper than a
// balanced-tree dispatch. A future deployment with deep books should
// substitute an ordered map keyed by price without changing this type's
// exported contract.
type OrderBook struct {
	Bids []PriceLevel `json:"bids"`
	Asks []PriceLevel `json:"asks"`
	Last *decimal.Decimal `json:"last,omitempty"`
}

// NewOrderBook returns an empty aggregated book.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		Bids: []PriceLevel{},
		Asks: []PriceLevel{},
	}
}

// Place adds qty of resting liquidity at price on the given side, creating
// the level if absent. It never observes a zero quantity.
func (b *OrderBook) Place(side Side, price, qty decimal.Decimal) {
	if qty.IsZero() {
		return
	}
	switch side {
	case Buy:
		b.Bids = placeLevel(b.Bids, price, qty, true)
	case Sell:
		b.Asks = placeLevel(b.Asks, price, qty, false)
	}
}

// Take removes qty of resting liquidity at price on the given side. If the
// level's quantity drops to (or below) zero, the level is removed. A
// price absent from the book is a no-op — it should not happen in a
// correct trace, but Take is not the place to raise that alarm.
func (b *OrderBook) Take(side Side, price, qty decimal.Decimal) {
	switch side {
	case Buy:
		b.Bids = takeLevel(b.Bids, price, qty)
	case Sell:
		b.Asks = takeLevel(b.Asks, price, qty)
	}
}

// LastPrice records the price of the most recently executed trade.
func (b *OrderBook) LastPrice(price decimal.Decimal) {
	b.Last = &price
}

// Clone returns a deep-enough copy of b: the level slices are copied so a
// publisher can hand this out to a reader while continuing to mutate its
// own OrderBook without racing the reader.
func (b *OrderBook) Clone() *OrderBook {
	clone := &OrderBook{
		Bids: append([]PriceLevel(nil), b.Bids...),
		Asks: append([]PriceLevel(nil), b.Asks...),
	}
	if b.Last != nil {
		last := *b.Last
		clone.Last = &last
	}
	return clone
}

// placeLevel inserts or accumulates qty at price into levels, which must
// stay sorted descending (bids, desc=true) or ascending (asks, desc=false).
func placeLevel(levels []PriceLevel, price, qty decimal.Decimal, desc bool) []PriceLevel {
	for i := range levels {
		if levels[i].Price.Equal(price) {
			levels[i].Quantity = levels[i].Quantity.Add(qty)
			return levels
		}
		if (desc && levels[i].Price.LessThan(price)) || (!desc && levels[i].Price.GreaterThan(price)) {
			levels = append(levels, PriceLevel{})
			copy(levels[i+1:], levels[i:])
			levels[i] = PriceLevel{Price: price, Quantity: qty}
			return levels
		}
	}
	return append(levels, PriceLevel{Price: price, Quantity: qty})
}

// takeLevel subtracts qty from the level at price, removing it if the
// remaining quantity is zero or less.
func takeLevel(levels []PriceLevel, price, qty decimal.Decimal) []PriceLevel {
	for i := range levels {
		if !levels[i].Price.Equal(price) {
			continue
		}
		levels[i].Quantity = levels[i].Quantity.Sub(qty)
		if levels[i].Quantity.Sign() <= 0 {
			return append(levels[:i], levels[i+1:]...)
		}
		return levels
	}
	return levels
}
