package linesrv

import (
	"bufio"
	"errors"
	"io"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/linesrv/linesrv/frame"
)

// connState is the per-connection protocol state. Transitions:
//
//	AwaitingFrame -> Dispatching          frame delimiter observed
//	AwaitingFrame -> Closed               peer disconnect or server shutdown
//	Dispatching   -> Responding           verdict carries a response
//	Dispatching   -> Closed               quit/shutdown: nothing to write
//	Responding    -> AwaitingFrame        response written, keep serving
//	Responding    -> Closed               write failed
//
// The distinction between "respond then keep open", "respond then
// close" and "close without responding" is carried on the verdict, not
// buried in control flow.
type connState int

const (
	stateAwaitingFrame connState = iota
	stateDispatching
	stateResponding
	stateClosed
)

// conn is one accepted client connection. Frames on it are handled
// strictly in arrival order.
type conn struct {
	id     uint64
	srv    *Server
	nc     net.Conn
	reader *bufio.Reader
	log    zerolog.Logger
}

func newConn(id uint64, nc net.Conn, srv *Server) *conn {
	return &conn{
		id:     id,
		srv:    srv,
		nc:     nc,
		reader: bufio.NewReader(nc),
		log:    srv.log.With().Uint64("conn", id).Str("remote", nc.RemoteAddr().String()).Logger(),
	}
}

// serve runs the connection state machine until it reaches Closed.
func (c *conn) serve() {
	defer c.close()

	c.log.Debug().Msg("connection accepted")

	state := stateAwaitingFrame
	var payload []byte
	var v verdict

	for state != stateClosed {
		switch state {
		case stateAwaitingFrame:
			var err error
			payload, err = c.readFrame()
			if err != nil {
				// peer disconnect or forced close: no response attempted
				if !errors.Is(err, io.EOF) && !c.srv.shutdown.Triggered() {
					c.log.Debug().Err(err).Msg("read failed")
				}
				state = stateClosed
				continue
			}
			state = stateDispatching

		case stateDispatching:
			v = c.srv.dispatch(c.log, payload)
			if v.silentClose {
				state = stateClosed
				continue
			}
			state = stateResponding

		case stateResponding:
			if err := frame.WriteResponse(c.nc, v.status, v.payload); err != nil {
				c.log.Warn().Err(err).Msg("write failed")
				state = stateClosed
				continue
			}
			if v.closeAfter {
				state = stateClosed
			} else {
				state = stateAwaitingFrame
			}
		}
	}
}

// readFrame blocks until a full delimited frame arrives or the
// connection dies.
func (c *conn) readFrame() ([]byte, error) {
	if t := c.srv.cfg.ReadTimeout; t > 0 {
		if err := c.nc.SetReadDeadline(time.Now().Add(t)); err != nil {
			return nil, err
		}
	}
	return frame.ReadRequest(c.reader)
}

func (c *conn) close() {
	c.srv.unregister(c.id)
	c.nc.Close()
	c.srv.stats.recordDisconnect()
	c.log.Debug().Msg("connection closed")
}
