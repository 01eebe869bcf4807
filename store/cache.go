package store

import (
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeebo/xxh3"
)

// CachePath returns where OpenFileCached keeps the offset index for the
// corpus at path.
func CachePath(path string) string {
	return path + ".idx"
}

// indexCache is the on-disk form of a corpus offset index. The
// fingerprint ties the cache to the exact corpus content it was built
// from.
type indexCache struct {
	Fingerprint uint64  `msgpack:"fingerprint"`
	Offsets     []int64 `msgpack:"offsets"`
}

// fingerprintReader hashes the full content of r.
func fingerprintReader(r io.Reader) (uint64, error) {
	h := xxh3.New()
	if _, err := io.Copy(h, r); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// loadIndexCache reads the cache at path and returns its offsets if it
// decodes cleanly and matches fingerprint. Any failure means "no cache".
func loadIndexCache(path string, fingerprint uint64) ([]int64, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var cache indexCache
	if err := msgpack.Unmarshal(raw, &cache); err != nil {
		return nil, false
	}
	if cache.Fingerprint != fingerprint || len(cache.Offsets) == 0 {
		return nil, false
	}
	return cache.Offsets, true
}

// saveIndexCache writes the cache atomically: encode to a temp file in
// the same directory, then rename over path.
func saveIndexCache(path string, fingerprint uint64, offsets []int64) error {
	raw, err := msgpack.Marshal(indexCache{
		Fingerprint: fingerprint,
		Offsets:     offsets,
	})
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".idx-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
