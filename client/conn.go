package client

import (
	"bufio"
	"context"
	"errors"
	"net"
	"time"

	"github.com/linesrv/linesrv/frame"
)

// ErrRejected is returned when the server answers ERR. The protocol
// carries no reason: a rejected frame and an out-of-bounds index look
// the same on the wire.
var ErrRejected = errors.New("client: request rejected")

// Conn is a single protocol connection. It is not safe for concurrent
// use; Client provides pooling on top.
type Conn struct {
	nc     net.Conn
	reader *bufio.Reader
}

// Dial connects to a line-retrieval server.
func Dial(addr string, timeout time.Duration) (*Conn, error) {
	nc, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, err
	}
	return NewConn(nc), nil
}

// NewConn wraps an established connection.
func NewConn(nc net.Conn) *Conn {
	return &Conn{nc: nc, reader: bufio.NewReader(nc)}
}

// Get retrieves the corpus line at the 1-based index.
func (c *Conn) Get(ctx context.Context, index uint32) (string, error) {
	if err := c.applyDeadline(ctx); err != nil {
		return "", err
	}

	if _, err := c.nc.Write(frame.Encode(frame.CmdGet, index)); err != nil {
		return "", err
	}

	status, payload, err := frame.ReadResponse(c.reader)
	if err != nil {
		return "", err
	}
	if status == frame.StatusErr {
		return "", ErrRejected
	}
	return payload, nil
}

// Quit tells the server to drop this connection and closes it. The
// server writes nothing back on quit, so there is no response to read.
func (c *Conn) Quit() error {
	if _, err := c.nc.Write(frame.Encode(frame.CmdQuit, 0)); err != nil {
		c.nc.Close()
		return err
	}
	return c.nc.Close()
}

// Shutdown asks the server to stop entirely. The server closes every
// connection, this one included.
func (c *Conn) Shutdown(ctx context.Context) error {
	if err := c.applyDeadline(ctx); err != nil {
		return err
	}
	if _, err := c.nc.Write(frame.Encode(frame.CmdShutdown, 0)); err != nil {
		c.nc.Close()
		return err
	}
	return c.nc.Close()
}

// Close closes the connection without sending anything.
func (c *Conn) Close() error {
	return c.nc.Close()
}

// applyDeadline maps the context deadline onto the socket; a context
// without one clears any previous deadline.
func (c *Conn) applyDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		return c.nc.SetDeadline(deadline)
	}
	return c.nc.SetDeadline(time.Time{})
}
