package testutils

import (
	"bytes"
	"io"
	"net"
	"time"
)

// ConnMock is a scripted net.Conn for codec-level tests: reads come
// from the pre-loaded response bytes, writes are captured for
// inspection.
type ConnMock struct {
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
	closed   bool
}

// NewConnMock creates a mock connection that will serve responses as
// its read side.
func NewConnMock(responses ...string) *ConnMock {
	readBuf := &bytes.Buffer{}
	for _, r := range responses {
		readBuf.WriteString(r)
	}
	return &ConnMock{
		readBuf:  readBuf,
		writeBuf: &bytes.Buffer{},
	}
}

func (m *ConnMock) Read(b []byte) (int, error) {
	if m.closed {
		return 0, io.EOF
	}
	return m.readBuf.Read(b)
}

func (m *ConnMock) Write(b []byte) (int, error) {
	if m.closed {
		return 0, io.ErrClosedPipe
	}
	return m.writeBuf.Write(b)
}

func (m *ConnMock) Close() error {
	m.closed = true
	return nil
}

// Written returns everything written to the connection so far.
func (m *ConnMock) Written() []byte {
	return m.writeBuf.Bytes()
}

// Closed reports whether Close has been called.
func (m *ConnMock) Closed() bool {
	return m.closed
}

func (m *ConnMock) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (m *ConnMock) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 10497}
}

func (m *ConnMock) SetDeadline(t time.Time) error      { return nil }
func (m *ConnMock) SetReadDeadline(t time.Time) error  { return nil }
func (m *ConnMock) SetWriteDeadline(t time.Time) error { return nil }
