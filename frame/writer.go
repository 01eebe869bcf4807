package frame

import "io"

// AppendResponse appends a two-line response to dst: the status line and
// the payload line, each delimiter-terminated. The payload line is
// emitted even when empty so a reader can always consume exactly two
// lines per request.
func AppendResponse(dst []byte, status, payload string) []byte {
	dst = append(dst, status...)
	dst = append(dst, Delimiter)
	dst = append(dst, payload...)
	return append(dst, Delimiter)
}

// WriteResponse writes a complete response to w in a single Write call,
// so a response is never observable half-written.
func WriteResponse(w io.Writer, status, payload string) error {
	buf := make([]byte, 0, len(status)+len(payload)+2)
	_, err := w.Write(AppendResponse(buf, status, payload))
	return err
}
