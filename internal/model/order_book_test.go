package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderBook_StartsEmpty(t *testing.T) {
	b := NewOrderBook()
	assert.Empty(t, b.Bids)
	assert.Empty(t, b.Asks)
	assert.Nil(t, b.Last)
}

func TestOrderBook_PlaceBidsStayDescending(t *testing.T) {
	b := NewOrderBook()

	b.Place(Buy, dec("11"), dec("200"))
	assert.Equal(t, []PriceLevel{{Price: dec("11"), Quantity: dec("200")}}, b.Bids)

	b.Place(Buy, dec("10"), dec("300"))
	assert.Equal(t, []PriceLevel{
		{Price: dec("11"), Quantity: dec("200")},
		{Price: dec("10"), Quantity: dec("300")},
	}, b.Bids)

	b.Place(Buy, dec("12"), dec("500"))
	assert.Equal(t, []PriceLevel{
		{Price: dec("12"), Quantity: dec("500")},
		{Price: dec("11"), Quantity: dec("200")},
		{Price: dec("10"), Quantity: dec("300")},
	}, b.Bids)

	b.Place(Buy, dec("11"), dec("500"))
	assert.Equal(t, []PriceLevel{
		{Price: dec("12"), Quantity: dec("500")},
		{Price: dec("11"), Quantity: dec("700")},
		{Price: dec("10"), Quantity: dec("300")},
	}, b.Bids)
}

func TestOrderBook_PlaceAsksStayAscending(t *testing.T) {
	b := NewOrderBook()

	b.Place(Sell, dec("11"), dec("200"))
	assert.Equal(t, []PriceLevel{{Price: dec("11"), Quantity: dec("200")}}, b.Asks)

	b.Place(Sell, dec("10"), dec("300"))
	assert.Equal(t, []PriceLevel{
		{Price: dec("10"), Quantity: dec("300")},
		{Price: dec("11"), Quantity: dec("200")},
	}, b.Asks)

	b.Place(Sell, dec("12"), dec("500"))
	assert.Equal(t, []PriceLevel{
		{Price: dec("10"), Quantity: dec("300")},
		{Price: dec("11"), Quantity: dec("200")},
		{Price: dec("12"), Quantity: dec("500")},
	}, b.Asks)

	b.Place(Sell, dec("11"), dec("500"))
	assert.Equal(t, []PriceLevel{
		{Price: dec("10"), Quantity: dec("300")},
		{Price: dec("11"), Quantity: dec("700")},
		{Price: dec("12"), Quantity: dec("500")},
	}, b.Asks)
}

func TestOrderBook_TakeRemovesEmptiedLevel(t *testing.T) {
	b := NewOrderBook()
	b.Place(Buy, dec("10"), dec("100"))

	b.Take(Buy, dec("10"), dec("40"))
	assert.Equal(t, []PriceLevel{{Price: dec("10"), Quantity: dec("60")}}, b.Bids)

	b.Take(Buy, dec("10"), dec("60"))
	assert.Empty(t, b.Bids)
}

func TestOrderBook_TakeAbsentPriceIsNoop(t *testing.T) {
	b := NewOrderBook()
	b.Place(Buy, dec("10"), dec("100"))

	b.Take(Buy, dec("99"), dec("1"))
	assert.Equal(t, []PriceLevel{{Price: dec("10"), Quantity: dec("100")}}, b.Bids)
}

func TestOrderBook_LastPrice(t *testing.T) {
	b := NewOrderBook()
	b.LastPrice(dec("10"))
	assert.True(t, b.Last.Equal(dec("10")))
}
