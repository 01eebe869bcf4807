package frame

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func frameBytes(cmd byte, index [4]byte) []byte {
	payload := append([]byte{cmd}, index[:]...)
	return append(payload, Checksum(payload))
}

func TestChecksum(t *testing.T) {
	if got := Checksum([]byte{'0', 0, 0, 0, 1}); got != 0x31 {
		t.Errorf("Checksum = %#x, want 0x31", got)
	}
	// wraps modulo 256
	if got := Checksum([]byte{0xff, 0xff, 0x03}); got != 0x01 {
		t.Errorf("Checksum = %#x, want 0x01", got)
	}
	if got := Checksum(nil); got != 0 {
		t.Errorf("Checksum(nil) = %#x, want 0", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		payload []byte
		want    Frame
		wantErr error
	}{
		{
			name:    "get first line",
			payload: frameBytes(CmdGet, [4]byte{0, 0, 0, 1}),
			want:    Frame{Command: CmdGet, Index: 1, Checksum: 0x31},
		},
		{
			name:    "get large index",
			payload: frameBytes(CmdGet, [4]byte{0xff, 0xff, 0xff, 0xff}),
			want:    Frame{Command: CmdGet, Index: 0xffffffff, Checksum: Checksum([]byte{'0', 0xff, 0xff, 0xff, 0xff})},
		},
		{
			name:    "quit",
			payload: frameBytes(CmdQuit, [4]byte{}),
			want:    Frame{Command: CmdQuit, Checksum: '1'},
		},
		{
			name:    "shutdown",
			payload: frameBytes(CmdShutdown, [4]byte{}),
			want:    Frame{Command: CmdShutdown, Checksum: '2'},
		},
		{
			name:    "too short",
			payload: []byte{'0', 0, 0, 0},
			wantErr: ErrMalformedFrame,
		},
		{
			name:    "too long",
			payload: append(frameBytes(CmdGet, [4]byte{0, 0, 0, 1}), 0),
			wantErr: ErrMalformedFrame,
		},
		{
			name:    "empty",
			payload: nil,
			wantErr: ErrMalformedFrame,
		},
		{
			name:    "bad checksum",
			payload: []byte{'0', 0, 0, 0, 1, 0x02},
			wantErr: ErrChecksumMismatch,
		},
		{
			name:    "unknown command",
			payload: frameBytes('3', [4]byte{}),
			wantErr: ErrUnknownCommand,
		},
		{
			// length is checked before the checksum: 5 bytes of a valid
			// frame fail as malformed, not as a checksum mismatch
			name:    "truncated valid frame",
			payload: []byte{'0', 0, 0, 0, 1},
			wantErr: ErrMalformedFrame,
		},
		{
			// checksum is checked before the command byte
			name:    "unknown command with bad checksum",
			payload: []byte{'9', 0, 0, 0, 0, 0x00},
			wantErr: ErrChecksumMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("Parse() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEncodeParseRoundTrip(t *testing.T) {
	wire := Encode(CmdGet, 42)
	if len(wire) != WireSize {
		t.Fatalf("Encode length = %d, want %d", len(wire), WireSize)
	}
	if wire[WireSize-1] != Delimiter {
		t.Fatalf("Encode missing delimiter, got %#x", wire[WireSize-1])
	}

	f, err := Parse(wire[:PayloadSize])
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if f.Command != CmdGet || f.Index != 42 {
		t.Errorf("Parse() = %+v, want command %q index 42", f, CmdGet)
	}
}

func TestReadRequest(t *testing.T) {
	r := bufio.NewReader(bytes.NewReader(Encode(CmdGet, 7)))

	payload, err := ReadRequest(r)
	if err != nil {
		t.Fatalf("ReadRequest() error = %v", err)
	}
	if len(payload) != PayloadSize {
		t.Errorf("payload length = %d, want %d", len(payload), PayloadSize)
	}

	// a second read hits EOF
	if _, err := ReadRequest(r); err == nil {
		t.Error("ReadRequest() on drained reader should fail")
	}
}

func TestWriteResponse(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteResponse(&buf, StatusOK, "hello"); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}
	if got := buf.String(); got != "OK\nhello\n" {
		t.Errorf("WriteResponse() wrote %q, want %q", got, "OK\nhello\n")
	}

	buf.Reset()
	if err := WriteResponse(&buf, StatusErr, ""); err != nil {
		t.Fatalf("WriteResponse() error = %v", err)
	}
	if got := buf.String(); got != "ERR\n\n" {
		t.Errorf("WriteResponse() wrote %q, want %q", got, "ERR\n\n")
	}
}

func TestReadResponse(t *testing.T) {
	status, payload, err := ReadResponse(bufio.NewReader(strings.NewReader("OK\nsome line\n")))
	if err != nil {
		t.Fatalf("ReadResponse() error = %v", err)
	}
	if status != StatusOK || payload != "some line" {
		t.Errorf("ReadResponse() = %q, %q", status, payload)
	}

	status, payload, err = ReadResponse(bufio.NewReader(strings.NewReader("ERR\n\n")))
	if err != nil {
		t.Fatalf("ReadResponse() error = %v", err)
	}
	if status != StatusErr || payload != "" {
		t.Errorf("ReadResponse() = %q, %q", status, payload)
	}

	if _, _, err := ReadResponse(bufio.NewReader(strings.NewReader("WAT\n\n"))); !errors.Is(err, ErrBadResponse) {
		t.Errorf("ReadResponse() error = %v, want %v", err, ErrBadResponse)
	}

	if _, _, err := ReadResponse(bufio.NewReader(strings.NewReader("OK\n"))); err == nil {
		t.Error("ReadResponse() with a missing payload line should fail")
	}
}
