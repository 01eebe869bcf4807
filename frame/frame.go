package frame

import "encoding/binary"

// Frame is one decoded client request. It is transient: created by Parse
// for a single dispatch and discarded afterwards.
type Frame struct {
	Command  byte
	Index    uint32 // meaningful for CmdGet only
	Checksum byte
}

// Checksum returns the modular sum of b, the 8-bit checksum the protocol
// places after the command and index bytes.
func Checksum(b []byte) byte {
	var sum uint32
	for _, c := range b {
		sum += uint32(c)
	}
	return byte(sum % 256)
}

// Parse decodes and validates payload, the bytes of one request frame up
// to but excluding the delimiter. Validation short-circuits at the first
// failure: length, then checksum, then command.
func Parse(payload []byte) (Frame, error) {
	if len(payload) != PayloadSize {
		return Frame{}, ErrMalformedFrame
	}

	f := Frame{
		Command:  payload[0],
		Index:    binary.BigEndian.Uint32(payload[1:5]),
		Checksum: payload[5],
	}

	if Checksum(payload[:5]) != f.Checksum {
		return Frame{}, ErrChecksumMismatch
	}

	switch f.Command {
	case CmdGet, CmdQuit, CmdShutdown:
	default:
		return Frame{}, ErrUnknownCommand
	}

	return f, nil
}

// Append appends the full wire encoding of a request to dst, checksum
// and delimiter included, and returns the extended slice.
func Append(dst []byte, cmd byte, index uint32) []byte {
	start := len(dst)
	dst = append(dst, cmd)
	dst = binary.BigEndian.AppendUint32(dst, index)
	dst = append(dst, Checksum(dst[start:]))
	return append(dst, Delimiter)
}

// Encode returns the 7-byte wire encoding of a request.
func Encode(cmd byte, index uint32) []byte {
	return Append(make([]byte, 0, WireSize), cmd, index)
}
