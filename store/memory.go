package store

import (
	"bufio"
	"errors"
	"io"
)

// ErrOutOfBounds is returned for index 0, negative indices, and indices
// past the last line. There is no 0th line: the corpus is 1-based.
var ErrOutOfBounds = errors.New("store: line index out of bounds")

// Lines is an in-memory corpus. It is immutable after construction and
// safe for concurrent reads.
type Lines struct {
	lines []string
}

// New builds an in-memory corpus from lines, in order.
func New(lines []string) *Lines {
	return &Lines{lines: lines}
}

// FromReader builds an in-memory corpus by splitting r into lines.
// Line terminators are not part of the stored lines.
func FromReader(r io.Reader) (*Lines, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &Lines{lines: lines}, nil
}

// LineCount returns the number of lines in the corpus.
func (s *Lines) LineCount() int {
	return len(s.lines)
}

// Line returns the line at the 1-based index n.
func (s *Lines) Line(n int) (string, error) {
	if n < 1 || n > len(s.lines) {
		return "", ErrOutOfBounds
	}
	return s.lines[n-1], nil
}

// maxLineSize caps a single corpus line at 1MiB.
const maxLineSize = 1 << 20
