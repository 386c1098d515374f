package model

import (
	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"
)

// bookLevel is one price bucket of a BookSide: the resting Limit orders at
// that price, FIFO by arrival (push_back on arrival, pop_front on match).
type bookLevel struct {
	price  decimal.Decimal
	orders []Order
}

// BookSide is the private, per-side price-time priority queue the matcher
// walks to find the next maker. It is never shared outside the engine
// goroutine, so it needs no locking. Levels are kept in an ordered map
// (github.com/tidwall/btree, the same ordered-map library the teacher repo
// uses for its own price levels) rather than a plain sorted slice, since
// BookSide — unlike OrderBook — must support arbitrarily deep books
// without re-sorting on every push.
type BookSide struct {
	side   Side
	levels *btree.BTreeG[*bookLevel]
}

// NewBookSide creates an empty queue for the given side. Buy levels are
// ordered so the highest price is visited first; Sell levels so the
// lowest price is visited first — in both cases, "best-first."
func NewBookSide(side Side) *BookSide {
	var less func(a, b *bookLevel) bool
	if side == Buy {
		less = func(a, b *bookLevel) bool { return a.price.GreaterThan(b.price) }
	} else {
		less = func(a, b *bookLevel) bool { return a.price.LessThan(b.price) }
	}
	return &BookSide{side: side, levels: btree.NewBTreeG(less)}
}

// Push appends a resting Limit order to the queue at its price, creating
// the level if it is not yet present. Precondition: order is a Limit with
// Unfilled() > 0.
func (bs *BookSide) Push(order Order) {
	key := &bookLevel{price: order.Price}
	if existing, ok := bs.levels.GetMut(key); ok {
		existing.orders = append(existing.orders, order)
		return
	}
	bs.levels.Set(&bookLevel{price: order.Price, orders: []Order{order}})
}

// Fill walks levels in best-first order, matching incoming against the
// head maker of each level while incoming still crosses that level's
// price. A maker left partially filled is reinserted at the front of its
// level's queue, preserving its time priority. The walk stops at the
// first level that no longer crosses, or once incoming is fully filled.
// Levels emptied during the walk are removed once the walk completes.
func (bs *BookSide) Fill(incoming *Order) []Trade {
	var trades []Trade
	var emptied []*bookLevel

	bs.levels.Scan(func(level *bookLevel) bool {
		if incoming.IsFilled() || !incoming.Crosses(level.price) {
			return false
		}

		for len(level.orders) > 0 && !incoming.IsFilled() {
			maker := level.orders[0]
			level.orders = level.orders[1:]

			trade := executeTrade(incoming, &maker)
			trades = append(trades, trade)

			if !maker.IsFilled() {
				level.orders = append([]Order{maker}, level.orders...)
			}
		}

		if len(level.orders) == 0 {
			emptied = append(emptied, level)
		}
		return true
	})

	for _, level := range emptied {
		bs.levels.Delete(level)
	}

	return trades
}

// executeTrade matches the incoming taker against a resting maker at the
// maker's price, mutating both orders' fill state and returning the
// resulting trade. Quantity is always the amount actually used, never the
// maker's original order quantity.
func executeTrade(taker, maker *Order) Trade {
	used := maker.Fill(taker.Unfilled())
	taker.Fill(used)

	var buyOrderID, sellOrderID int64
	if taker.Side == Buy {
		buyOrderID, sellOrderID = taker.ID, maker.ID
	} else {
		buyOrderID, sellOrderID = maker.ID, taker.ID
	}

	return NewTrade(maker.Price, used, buyOrderID, sellOrderID)
}

// Len returns the total number of resting orders across all levels. Test
// helper only.
func (bs *BookSide) Len() int {
	n := 0
	bs.levels.Scan(func(level *bookLevel) bool {
		n += len(level.orders)
		return true
	})
	return n
}

// IsEmpty reports whether the side has no price levels. Test helper only.
func (bs *BookSide) IsEmpty() bool {
	return bs.levels.Len() == 0
}

// Peek returns the best (next-to-match) resting order without removing
// it. Test helper only.
func (bs *BookSide) Peek() (Order, bool) {
	level, ok := bs.levels.Min()
	if !ok || len(level.orders) == 0 {
		return Order{}, false
	}
	return level.orders[0], true
}
