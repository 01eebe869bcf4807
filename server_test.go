package linesrv

import (
	"bufio"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linesrv/linesrv/frame"
	"github.com/linesrv/linesrv/store"
)

var testLines = []string{
	"Lorem ipsum dolor sit amet, consectetur adipiscing elit,",
	"sed do eiusmod tempor incididunt ut labore",
	"et dolore magna aliqua.",
}

// startServer runs a server on an ephemeral port and returns it with
// its address. The server is shut down at test cleanup.
func startServer(t *testing.T) (*Server, string) {
	t.Helper()

	srv := NewServer(store.New(testLines), Config{})
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()
	t.Cleanup(func() {
		srv.Shutdown()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("server did not stop after shutdown")
		}
	})

	return srv, l.Addr().String()
}

func dial(t *testing.T, addr string) net.Conn {
	t.Helper()
	nc, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	t.Cleanup(func() { nc.Close() })
	return nc
}

// request sends raw on nc and reads a two-line response.
func request(t *testing.T, nc net.Conn, raw []byte) (status, payload string) {
	t.Helper()

	_, err := nc.Write(raw)
	require.NoError(t, err)

	require.NoError(t, nc.SetReadDeadline(time.Now().Add(5*time.Second)))
	r := bufio.NewReader(nc)
	statusLine, err := r.ReadString('\n')
	require.NoError(t, err)
	payloadLine, err := r.ReadString('\n')
	require.NoError(t, err)

	return statusLine[:len(statusLine)-1], payloadLine[:len(payloadLine)-1]
}

func TestServerScenarios(t *testing.T) {
	tests := []struct {
		name        string
		raw         []byte
		wantStatus  string
		wantPayload string
	}{
		{
			name:        "read first line",
			raw:         frame.Encode(frame.CmdGet, 1),
			wantStatus:  "OK",
			wantPayload: testLines[0],
		},
		{
			name:        "read last line",
			raw:         frame.Encode(frame.CmdGet, 3),
			wantStatus:  "OK",
			wantPayload: testLines[2],
		},
		{
			name:       "zero index",
			raw:        frame.Encode(frame.CmdGet, 0),
			wantStatus: "ERR",
		},
		{
			name:       "index past corpus",
			raw:        frame.Encode(frame.CmdGet, 0xffffffff),
			wantStatus: "ERR",
		},
		{
			name:       "unknown command",
			raw:        frame.Encode('3', 0),
			wantStatus: "ERR",
		},
		{
			name:       "bad checksum",
			raw:        []byte{'0', 0, 0, 0, 1, 0x02, '\n'},
			wantStatus: "ERR",
		},
		{
			name:       "short frame",
			raw:        []byte{'0', 0, 0, 0, '\n'},
			wantStatus: "ERR",
		},
		{
			name:       "long frame",
			raw:        []byte{'0', 0, 0, 0, 0, 1, 0x31, '\n'},
			wantStatus: "ERR",
		},
		{
			name:       "empty frame",
			raw:        []byte{'\n'},
			wantStatus: "ERR",
		},
	}

	_, addr := startServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nc := dial(t, addr)
			status, payload := request(t, nc, tt.raw)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantPayload, payload)
		})
	}
}

func TestServerConnectionSurvivesErrors(t *testing.T) {
	_, addr := startServer(t)
	nc := dial(t, addr)

	// a rejected frame must not close the connection
	status, _ := request(t, nc, []byte{'0', 0, 0, 0, '\n'})
	require.Equal(t, "ERR", status)

	status, payload := request(t, nc, frame.Encode(frame.CmdGet, 2))
	assert.Equal(t, "OK", status)
	assert.Equal(t, testLines[1], payload)
}

func TestServerSequentialRequests(t *testing.T) {
	_, addr := startServer(t)
	nc := dial(t, addr)

	for i := 1; i <= 3; i++ {
		status, payload := request(t, nc, frame.Encode(frame.CmdGet, uint32(i)))
		require.Equal(t, "OK", status)
		require.Equal(t, testLines[i-1], payload)
	}
}

func TestServerIdempotentAcrossConnections(t *testing.T) {
	_, addr := startServer(t)

	nc1 := dial(t, addr)
	nc2 := dial(t, addr)

	s1, p1 := request(t, nc1, frame.Encode(frame.CmdGet, 1))
	s2, p2 := request(t, nc2, frame.Encode(frame.CmdGet, 1))
	assert.Equal(t, s1, s2)
	assert.Equal(t, p1, p2)
}

func TestServerQuit(t *testing.T) {
	_, addr := startServer(t)
	nc := dial(t, addr)

	_, err := nc.Write(frame.Encode(frame.CmdQuit, 0))
	require.NoError(t, err)

	// quit sends nothing back: the next read observes EOF
	require.NoError(t, nc.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = nc.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
}

func TestServerQuitLeavesOthersOpen(t *testing.T) {
	_, addr := startServer(t)
	ncQuit := dial(t, addr)
	ncOther := dial(t, addr)

	_, err := ncQuit.Write(frame.Encode(frame.CmdQuit, 0))
	require.NoError(t, err)
	require.NoError(t, ncQuit.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = ncQuit.Read(make([]byte, 1))
	require.ErrorIs(t, err, io.EOF)

	status, payload := request(t, ncOther, frame.Encode(frame.CmdGet, 1))
	assert.Equal(t, "OK", status)
	assert.Equal(t, testLines[0], payload)
}

func TestServerShutdown(t *testing.T) {
	srv := NewServer(store.New(testLines), Config{})
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()

	done := make(chan error, 1)
	go func() { done <- srv.Serve(l) }()

	ncOther := dial(t, addr)
	nc := dial(t, addr)

	_, err = nc.Write(frame.Encode(frame.CmdShutdown, 0))
	require.NoError(t, err)

	// Serve returns cleanly once the shutdown command lands
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after shutdown command")
	}
	assert.True(t, srv.ShuttingDown())

	// every connection is closed, not just the caller's
	require.NoError(t, ncOther.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, err = ncOther.Read(make([]byte, 1))
	assert.Error(t, err)

	// and no new connections are accepted
	late, err := net.DialTimeout("tcp", addr, time.Second)
	if err == nil {
		late.SetReadDeadline(time.Now().Add(5 * time.Second))
		_, err = late.Read(make([]byte, 1))
		assert.Error(t, err, "connection to a stopped server should not serve")
		late.Close()
	}
}

func TestServerStats(t *testing.T) {
	srv, addr := startServer(t)
	nc := dial(t, addr)

	request(t, nc, frame.Encode(frame.CmdGet, 1))
	request(t, nc, frame.Encode(frame.CmdGet, 0))
	request(t, nc, []byte{'0', 0, 0, 0, '\n'})
	request(t, nc, []byte{'0', 0, 0, 0, 1, 0x02, '\n'})
	request(t, nc, frame.Encode('7', 0))

	stats := srv.Stats()
	assert.Equal(t, uint64(1), stats.ConnectionsAccepted)
	assert.Equal(t, uint64(1), stats.LinesServed)
	assert.Equal(t, uint64(1), stats.ReadsOutOfBounds)
	assert.Equal(t, uint64(1), stats.FramesMalformed)
	assert.Equal(t, uint64(1), stats.FramesBadChecksum)
	assert.Equal(t, uint64(1), stats.FramesUnknownCommand)
}
