package frame

import "errors"

// Parse failures, in validation order. All of them are recoverable at
// the connection level: the server answers ERR and keeps reading.
var (
	// ErrMalformedFrame means the payload was not exactly PayloadSize
	// bytes before the delimiter.
	ErrMalformedFrame = errors.New("frame: malformed frame")

	// ErrChecksumMismatch means the trailing checksum byte did not match
	// the modular sum of the command and index bytes.
	ErrChecksumMismatch = errors.New("frame: checksum mismatch")

	// ErrUnknownCommand means the command byte is outside the recognized
	// set.
	ErrUnknownCommand = errors.New("frame: unknown command")
)

// ErrBadResponse is returned by ReadResponse when the server side of the
// conversation breaks the two-line contract.
var ErrBadResponse = errors.New("frame: bad response")
