// Package wal implements the engine's write-ahead log: an append-only,
// newline-delimited JSON record of every accepted order command, durable
// enough to deterministically reconstruct engine state after a crash.
package wal

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"matchd/internal/model"
)

// fileName is the single current log file written by this process
// incarnation. Historical files from previous runs stay in the directory
// and are replayed alongside it.
const fileName = "write_ahead_log.wal"

// WriteAheadLog is an append-only on-disk log of accepted Order commands.
type WriteAheadLog struct {
	dir    string
	file   *os.File
	writer *bufio.Writer
}

// Open ensures dir exists and opens (creating if missing) the current
// log file in append mode.
func Open(dir string) (*WriteAheadLog, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("wal: create directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("wal: open %s: %w", path, err)
	}

	return &WriteAheadLog{
		dir:    dir,
		file:   f,
		writer: bufio.NewWriter(f),
	}, nil
}

// Append serialises order as one JSON line and durably writes it: the
// buffered writer is flushed and the write is fsync'd before Append
// returns. A command's effects may only be applied once Append has
// returned successfully — a failure here is fatal to the engine.
func (w *WriteAheadLog) Append(order model.Order) error {
	entry, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("wal: marshal order %d: %w", order.ID, err)
	}

	if _, err := w.writer.Write(entry); err != nil {
		return fmt.Errorf("wal: write order %d: %w", order.ID, err)
	}
	if err := w.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("wal: write order %d: %w", order.ID, err)
	}
	if err := w.writer.Flush(); err != nil {
		return fmt.Errorf("wal: flush order %d: %w", order.ID, err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("wal: sync order %d: %w", order.ID, err)
	}

	return nil
}

// Close flushes and closes the current log file.
func (w *WriteAheadLog) Close() error {
	if err := w.writer.Flush(); err != nil {
		return err
	}
	return w.file.Close()
}

// Replay enumerates every regular file in the log directory, sorted by
// filename ascending, and parses each line as a JSON Order. A corrupt
// line or unreadable file is skipped with a warning rather than aborting
// the replay — durability here is best-effort past the point of no
// return, and operators are expected to monitor these warnings.
func (w *WriteAheadLog) Replay() ([]model.Order, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("wal: read directory %s: %w", w.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var orders []model.Order
	for _, name := range names {
		path := filepath.Join(w.dir, name)
		read, err := readOrders(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("wal: skipping unreadable file")
			continue
		}
		orders = append(orders, read...)
	}

	return orders, nil
}

func readOrders(path string) ([]model.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var orders []model.Order
	scanner := bufio.NewScanner(f)
	// Orders are small JSON objects, but be generous in case a future
	// field grows the line past bufio's 64KiB default.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var order model.Order
		if err := json.Unmarshal(line, &order); err != nil {
			log.Warn().
				Err(err).
				Str("file", path).
				Int("line", lineNo).
				Msg("wal: skipping corrupt entry")
			continue
		}
		orders = append(orders, order)
	}

	if err := scanner.Err(); err != nil {
		return orders, err
	}
	return orders, nil
}
