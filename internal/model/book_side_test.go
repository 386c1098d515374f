package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookSide_PushOrdersBestFirst(t *testing.T) {
	bids := NewBookSide(Buy)
	bids.Push(Open(1, Buy, Limit, dec("10"), dec("100")))
	bids.Push(Open(2, Buy, Limit, dec("12"), dec("100")))
	bids.Push(Open(3, Buy, Limit, dec("11"), dec("100")))

	best, ok := bids.Peek()
	assert.True(t, ok)
	assert.Equal(t, int64(2), best.ID)
}

func TestBookSide_FifoAtSameLevel(t *testing.T) {
	asks := NewBookSide(Sell)
	asks.Push(Open(1, Sell, Limit, dec("10"), dec("100")))
	asks.Push(Open(2, Sell, Limit, dec("10"), dec("50")))

	incoming := Open(3, Buy, Limit, dec("10"), dec("100"))
	trades := asks.Fill(&incoming)

	assert.Len(t, trades, 1)
	assert.Equal(t, int64(1), trades[0].SellOrderID)
	assert.True(t, trades[0].Quantity.Equal(dec("100")))
	assert.Equal(t, 1, asks.Len())

	remaining, ok := asks.Peek()
	assert.True(t, ok)
	assert.Equal(t, int64(2), remaining.ID)
}

func TestBookSide_FillStopsAtNonCrossingLevel(t *testing.T) {
	asks := NewBookSide(Sell)
	asks.Push(Open(1, Sell, Limit, dec("10"), dec("100")))
	asks.Push(Open(2, Sell, Limit, dec("12"), dec("100")))

	incoming := Open(3, Buy, Limit, dec("10"), dec("500"))
	trades := asks.Fill(&incoming)

	assert.Len(t, trades, 1)
	assert.True(t, incoming.Unfilled().Equal(dec("400")))
	assert.Equal(t, 1, asks.Len())
}

func TestBookSide_EmptiedLevelIsRemoved(t *testing.T) {
	bids := NewBookSide(Buy)
	bids.Push(Open(1, Buy, Limit, dec("10"), dec("100")))

	incoming := Open(2, Sell, Limit, dec("10"), dec("100"))
	trades := bids.Fill(&incoming)

	assert.Len(t, trades, 1)
	assert.True(t, bids.IsEmpty())
}
