// Package gateway is the newline-delimited TCP front door onto
// internal/engine: the minimal "external submitter" spec.md's data-flow
// diagram assumes but never specifies the shape of.
package gateway

import (
	"bufio"
	"net"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"matchd/internal/engine"
)

// Gateway accepts TCP connections and, one request line at a time,
// translates them into engine.Command submissions.
type Gateway struct {
	listener net.Listener
	engine   *engine.Engine
}

// New binds addr and returns a Gateway ready to Run.
func New(addr string, eng *engine.Engine) (*Gateway, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Gateway{listener: listener, engine: eng}, nil
}

// Addr returns the address the gateway is actually listening on, useful
// when addr was ":0".
func (g *Gateway) Addr() net.Addr {
	return g.listener.Addr()
}

// Run accepts connections until t is dying, spawning one supervised
// goroutine per connection. Each connection is handled independently;
// one connection's error never brings down another.
func (g *Gateway) Run(t *tomb.Tomb) error {
	go func() {
		<-t.Dying()
		_ = g.listener.Close()
	}()

	for {
		conn, err := g.listener.Accept()
		if err != nil {
			select {
			case <-t.Dying():
				return nil
			default:
				log.Error().Err(err).Msg("gateway: accept failed")
				return err
			}
		}

		connID := uuid.New()
		t.Go(func() error {
			g.handleConn(t, connID, conn)
			return nil
		})
	}
}

// handleConn reads one OPEN request per line from conn, submits it to the
// engine, and writes back one reply line, until the connection closes, a
// read error occurs, or the gateway is shutting down.
func (g *Gateway) handleConn(t *tomb.Tomb, connID uuid.UUID, conn net.Conn) {
	defer conn.Close()

	logger := log.With().Stringer("connID", connID).Str("remote", conn.RemoteAddr().String()).Logger()
	logger.Info().Msg("gateway: connection opened")
	defer logger.Info().Msg("gateway: connection closed")

	scanner := bufio.NewScanner(conn)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		select {
		case <-t.Dying():
			return
		default:
		}

		requestID := uuid.New()
		line := scanner.Text()

		cmd, err := parseCommand(line)
		if err != nil {
			logger.Warn().Stringer("requestID", requestID).Err(err).Str("line", line).Msg("gateway: rejecting malformed request")
			if _, werr := writer.WriteString(formatError(err)); werr != nil {
				return
			}
			if writer.Flush() != nil {
				return
			}
			continue
		}

		order, err := g.engine.Submit(cmd)
		if err != nil {
			logger.Error().Stringer("requestID", requestID).Err(err).Msg("gateway: engine rejected submission")
			if _, werr := writer.WriteString(formatError(err)); werr != nil {
				return
			}
			if writer.Flush() != nil {
				return
			}
			continue
		}

		logger.Debug().Stringer("requestID", requestID).Int64("orderID", order.ID).Msg("gateway: order accepted")
		if _, err := writer.WriteString(formatReply(order)); err != nil {
			return
		}
		if err := writer.Flush(); err != nil {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		logger.Warn().Err(err).Msg("gateway: connection read error")
	}
}
