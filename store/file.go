package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// File serves lines straight from the corpus file through a byte-offset
// index built at open time. The file is immutable for the life of the
// store, so lookups go through ReadAt and need no locking.
type File struct {
	f *os.File

	// offsets[i] is the byte offset where line i+1 starts; the final
	// entry is the total corpus size, so line n occupies
	// [offsets[n-1], offsets[n]).
	offsets []int64
}

// OpenFile opens the corpus at path and scans it to build the offset
// index.
func OpenFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open corpus: %w", err)
	}

	offsets, err := buildOffsets(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: index corpus: %w", err)
	}

	return &File{f: f, offsets: offsets}, nil
}

// OpenFileCached is OpenFile with the offset index persisted next to the
// corpus (see CachePath). A cache whose fingerprint matches the corpus
// content skips the scan; anything else rebuilds and rewrites it.
// Cache write failures are ignored: the cache is an optimization, not a
// requirement.
func OpenFileCached(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("store: open corpus: %w", err)
	}

	fingerprint, err := fingerprintReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: fingerprint corpus: %w", err)
	}

	cachePath := CachePath(path)
	if offsets, ok := loadIndexCache(cachePath, fingerprint); ok {
		return &File{f: f, offsets: offsets}, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, fmt.Errorf("store: rewind corpus: %w", err)
	}
	offsets, err := buildOffsets(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("store: index corpus: %w", err)
	}

	_ = saveIndexCache(cachePath, fingerprint, offsets)

	return &File{f: f, offsets: offsets}, nil
}

// Close closes the underlying corpus file.
func (s *File) Close() error {
	return s.f.Close()
}

// LineCount returns the number of lines in the corpus.
func (s *File) LineCount() int {
	return len(s.offsets) - 1
}

// Line returns the line at the 1-based index n, without its terminator.
func (s *File) Line(n int) (string, error) {
	if n < 1 || n > s.LineCount() {
		return "", ErrOutOfBounds
	}

	start, end := s.offsets[n-1], s.offsets[n]
	buf := make([]byte, end-start)
	if _, err := s.f.ReadAt(buf, start); err != nil {
		return "", fmt.Errorf("store: read line %d: %w", n, err)
	}

	line := strings.TrimSuffix(string(buf), "\n")
	return strings.TrimSuffix(line, "\r"), nil
}

// buildOffsets scans f from its current position and records the byte
// offset of every line start, with the total size as final sentinel.
// A final line without a trailing newline still counts.
func buildOffsets(f io.Reader) ([]int64, error) {
	r := bufio.NewReader(f)
	offsets := []int64{0}
	var pos int64

	for {
		chunk, err := r.ReadBytes('\n')
		if len(chunk) > 0 {
			pos += int64(len(chunk))
			offsets = append(offsets, pos)
		}
		if err == io.EOF {
			return offsets, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
