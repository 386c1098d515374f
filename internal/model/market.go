package model

// Market composes the two sides of a single instrument's private book and
// is where an incoming order actually gets matched.
type Market struct {
	bids *BookSide
	asks *BookSide
}

// NewMarket returns an empty market with no resting liquidity on either
// side.
func NewMarket() *Market {
	return &Market{
		bids: NewBookSide(Buy),
		asks: NewBookSide(Sell),
	}
}

// Push matches order against the opposite side of the book, then — if
// order is a Limit with quantity left over — places the residual back on
// its own side. Market orders with unfilled quantity are discarded: no
// placement, no error. Insufficient liquidity is not a protocol error
// here.
func (m *Market) Push(order *Order) []Trade {
	trades := m.oppositeSide(order.Side).Fill(order)

	if order.Type == Limit && order.Unfilled().IsPositive() {
		m.sameSide(order.Side).Push(order.Residual())
	}

	return trades
}

func (m *Market) oppositeSide(side Side) *BookSide {
	return m.sameSide(side.Opposite())
}

func (m *Market) sameSide(side Side) *BookSide {
	if side == Buy {
		return m.bids
	}
	return m.asks
}

// Bids exposes the private bid queue, for tests only.
func (m *Market) Bids() *BookSide { return m.bids }

// Asks exposes the private ask queue, for tests only.
func (m *Market) Asks() *BookSide { return m.asks }
