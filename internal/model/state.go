package model

// State is the shared, RW-lock-guarded view of the engine: the aggregated
// order book plus the append-only trade history. It is the only thing the
// engine goroutine and external readers touch concurrently (under the
// caller's sync.RWMutex — State itself holds no lock).
type State struct {
	OrderBook *OrderBook
	Trades    []Trade
}

// NewState returns an empty State with a fresh, empty OrderBook.
func NewState() *State {
	return &State{
		OrderBook: NewOrderBook(),
		Trades:    []Trade{},
	}
}

// PushTrade records trade in the trade history and updates the order
// book's last-traded price.
func (s *State) PushTrade(trade Trade) {
	s.OrderBook.LastPrice(trade.Price)
	s.Trades = append(s.Trades, trade)
}
