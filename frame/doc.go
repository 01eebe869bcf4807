// Package frame implements the wire protocol of the line-retrieval
// service: fixed-size, newline-delimited binary request frames and
// two-line textual responses.
//
// # Request frames
//
// A request is exactly 7 bytes on the wire:
//
//	<command:1> <index:4 big-endian> <checksum:1> '\n'
//
// The command byte is an ASCII digit: '0' reads a line by 1-based index,
// '1' quits the connection, '2' shuts the whole server down. The index
// bytes are only meaningful for '0'. The checksum is the modular sum of
// the five preceding bytes; it detects accidental corruption and is not
// a security mechanism.
//
// Parse validates a frame payload (the 6 bytes before the delimiter) and
// short-circuits at the first failure, in order: length, checksum,
// command. Encode and Append build frames for the client side.
//
// # Responses
//
// A response is always two newline-terminated lines: a status line (OK
// or ERR) and a payload line, empty on ERR. WriteResponse and
// ReadResponse are the two halves of that contract.
package frame
