package linesrv

import (
	"errors"
	"sync/atomic"

	"github.com/linesrv/linesrv/frame"
)

// Stats is a snapshot of server counters.
//
// For Prometheus integration, expose these as:
//   - Counters: ConnectionsAccepted, LinesServed, the Frames* rejects,
//     ReadsOutOfBounds, Quits, Shutdowns
//   - Gauge: ConnectionsActive
//
// NewStatsCollector does exactly that.
type Stats struct {
	ConnectionsAccepted  uint64 // connections accepted since start
	ConnectionsActive    int64  // connections currently open
	LinesServed          uint64 // successful get commands
	FramesMalformed      uint64 // frames rejected for length
	FramesBadChecksum    uint64 // frames rejected for checksum
	FramesUnknownCommand uint64 // frames rejected for command byte
	ReadsOutOfBounds     uint64 // get commands with an invalid index
	Quits                uint64 // quit commands received
	Shutdowns            uint64 // shutdown commands received
}

// statsCollector updates server counters atomically. Connection
// goroutines record into it concurrently; snapshot reads are torn-free
// per field, which is all a stats surface needs.
type statsCollector struct {
	stats Stats
}

func newStatsCollector() *statsCollector {
	return &statsCollector{}
}

func (c *statsCollector) recordConnection() {
	atomic.AddUint64(&c.stats.ConnectionsAccepted, 1)
	atomic.AddInt64(&c.stats.ConnectionsActive, 1)
}

func (c *statsCollector) recordDisconnect() {
	atomic.AddInt64(&c.stats.ConnectionsActive, -1)
}

func (c *statsCollector) recordLineServed() {
	atomic.AddUint64(&c.stats.LinesServed, 1)
}

func (c *statsCollector) recordFrameError(err error) {
	switch {
	case errors.Is(err, frame.ErrMalformedFrame):
		atomic.AddUint64(&c.stats.FramesMalformed, 1)
	case errors.Is(err, frame.ErrChecksumMismatch):
		atomic.AddUint64(&c.stats.FramesBadChecksum, 1)
	case errors.Is(err, frame.ErrUnknownCommand):
		atomic.AddUint64(&c.stats.FramesUnknownCommand, 1)
	}
}

func (c *statsCollector) recordOutOfBounds() {
	atomic.AddUint64(&c.stats.ReadsOutOfBounds, 1)
}

func (c *statsCollector) recordQuit() {
	atomic.AddUint64(&c.stats.Quits, 1)
}

func (c *statsCollector) recordShutdown() {
	atomic.AddUint64(&c.stats.Shutdowns, 1)
}

func (c *statsCollector) snapshot() Stats {
	return Stats{
		ConnectionsAccepted:  atomic.LoadUint64(&c.stats.ConnectionsAccepted),
		ConnectionsActive:    atomic.LoadInt64(&c.stats.ConnectionsActive),
		LinesServed:          atomic.LoadUint64(&c.stats.LinesServed),
		FramesMalformed:      atomic.LoadUint64(&c.stats.FramesMalformed),
		FramesBadChecksum:    atomic.LoadUint64(&c.stats.FramesBadChecksum),
		FramesUnknownCommand: atomic.LoadUint64(&c.stats.FramesUnknownCommand),
		ReadsOutOfBounds:     atomic.LoadUint64(&c.stats.ReadsOutOfBounds),
		Quits:                atomic.LoadUint64(&c.stats.Quits),
		Shutdowns:            atomic.LoadUint64(&c.stats.Shutdowns),
	}
}
