// Package engine holds the single-threaded matching engine driver: the
// state machine that serialises Command submissions, assigns order ids,
// appends to the write-ahead log, invokes the Market, mutates the shared
// State, and replies with the finalised Order.
package engine

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchd/internal/model"
	"matchd/internal/wal"
)

// ErrEngineStopped is returned to a Submit call when the engine's run
// loop has exited — because the command channel was closed, the tomb
// began shutting down, the replay failed, or a WAL append failed (the
// caller whose append failed gets the append error instead). It is the Go analogue of the "closed
// reply port" the spec describes: outstanding and future requests fail.
var ErrEngineStopped = errors.New("engine: stopped")

// commandChanSize bounds the command mailbox (spec.md §4.8): producers
// suspend, rather than error, once it is full.
const commandChanSize = 32

type envelope struct {
	cmd   Command
	reply chan reply
}

type reply struct {
	order model.Order
	err   error
}

// Engine is the matching engine driver. It owns the WAL handle, the
// private Market, the shared State, and the command mailbox, and runs
// entirely on the goroutine that calls Run.
type Engine struct {
	wal    *wal.WriteAheadLog
	market *model.Market

	stateMu sync.RWMutex
	state   *model.State

	commands  chan envelope
	snapshots chan *model.OrderBook
	done      chan struct{}

	idCounter int64
}

// New returns an Engine backed by w. Call Run to replay the log and start
// processing commands.
func New(w *wal.WriteAheadLog) *Engine {
	return &Engine{
		wal:       w,
		market:    model.NewMarket(),
		state:     model.NewState(),
		commands:  make(chan envelope, commandChanSize),
		snapshots: make(chan *model.OrderBook, 1),
		done:      make(chan struct{}),
	}
}

// Submit enqueues cmd and blocks until the engine has processed it (or
// stopped). It is safe to call from many goroutines concurrently.
func (e *Engine) Submit(cmd Command) (model.Order, error) {
	env := envelope{cmd: cmd, reply: make(chan reply, 1)}

	select {
	case e.commands <- env:
	case <-e.done:
		return model.Order{}, ErrEngineStopped
	}

	select {
	case r := <-env.reply:
		return r.order, r.err
	case <-e.done:
		return model.Order{}, ErrEngineStopped
	}
}

// Snapshots returns the latest-wins order book watch channel. Readers
// receive the most recent OrderBook published; intermediate values may be
// coalesced and are never guaranteed to all be observed.
func (e *Engine) Snapshots() <-chan *model.OrderBook {
	return e.snapshots
}

// ReadState runs fn with the shared State held under its read lock. fn
// must not retain state beyond the call, and must not block.
func (e *Engine) ReadState(fn func(state *model.State)) {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	fn(e.state)
}

// Run replays the write-ahead log, then serially processes submitted
// commands until the command channel is closed or a tomb.Tomb shutdown
// is requested. It is not safe to call Run more than once.
func (e *Engine) Run(t *tomb.Tomb) error {
	defer close(e.done)

	replayed, err := e.wal.Replay()
	if err != nil {
		return fmt.Errorf("engine: replay: %w", err)
	}

	var maxID int64
	for _, order := range replayed {
		e.apply(order)
		if order.ID > maxID {
			maxID = order.ID
		}
	}
	e.idCounter = maxID

	log.Info().
		Int("replayedOrders", len(replayed)).
		Int64("nextOrderID", e.idCounter+1).
		Msg("engine: replay complete, accepting commands")

	for {
		select {
		case <-t.Dying():
			log.Info().Msg("engine: shutting down")
			return nil
		case env, ok := <-e.commands:
			if !ok {
				log.Info().Msg("engine: command channel closed, draining")
				return nil
			}
			if err := e.handle(env); err != nil {
				return err
			}
		}
	}
}

// handle assigns an id to cmd, durably logs it, matches it, and replies.
// A WAL append failure is fatal: it is reported to this caller and then
// propagated to Run, which stops the engine.
func (e *Engine) handle(env envelope) error {
	e.idCounter++
	order := model.Open(e.idCounter, env.cmd.Side, env.cmd.Type, env.cmd.Price, env.cmd.Quantity)

	if err := e.wal.Append(order); err != nil {
		wrapped := fmt.Errorf("wal append failed: %w", err)
		env.reply <- reply{err: wrapped}
		log.Error().Err(err).Int64("orderID", order.ID).Msg("engine: wal append failed, stopping")
		return wrapped
	}

	final := e.apply(order)
	env.reply <- reply{order: final}
	return nil
}

// apply runs order through the Market, updates the aggregated State to
// match, and publishes a new snapshot. It is used both for freshly
// submitted commands and for orders recovered during WAL replay — replay
// does not re-log or reply, but state must converge identically either
// way.
func (e *Engine) apply(order model.Order) model.Order {
	trades := e.market.Push(&order)

	e.stateMu.Lock()
	for _, trade := range trades {
		e.state.OrderBook.Take(order.Side.Opposite(), trade.Price, trade.Quantity)
		e.state.PushTrade(trade)
	}
	if order.Type == model.Limit && order.Unfilled().IsPositive() {
		e.state.OrderBook.Place(order.Side, order.Price, order.Unfilled())
	}
	snapshot := e.state.OrderBook.Clone()
	e.stateMu.Unlock()

	e.publish(snapshot)
	return order
}

// publish overwrites the watch channel with the latest snapshot,
// dropping whatever stale value was sitting there unread.
func (e *Engine) publish(snapshot *model.OrderBook) {
	select {
	case <-e.snapshots:
	default:
	}
	select {
	case e.snapshots <- snapshot:
	default:
	}
}
