package frame

import (
	"bufio"
	"strings"
)

// ReadRequest reads one delimited request from r and returns its payload
// with the delimiter stripped. I/O errors from r are returned unchanged;
// a peer disconnect surfaces as io.EOF. Structural validation is left to
// Parse so the caller can answer ERR instead of dropping the connection.
func ReadRequest(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes(Delimiter)
	if err != nil {
		return nil, err
	}
	return line[:len(line)-1], nil
}

// ReadResponse reads one two-line response from r: the status line and
// the payload line. The trailing delimiters are stripped.
func ReadResponse(r *bufio.Reader) (status, payload string, err error) {
	statusLine, err := r.ReadString(Delimiter)
	if err != nil {
		return "", "", err
	}
	payloadLine, err := r.ReadString(Delimiter)
	if err != nil {
		return "", "", err
	}

	status = strings.TrimSuffix(statusLine, "\n")
	payload = strings.TrimSuffix(payloadLine, "\n")

	if status != StatusOK && status != StatusErr {
		return "", "", ErrBadResponse
	}
	return status, payload, nil
}
