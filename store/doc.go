// Package store holds the corpus served by the line-retrieval server:
// an immutable, ordered sequence of text lines addressed by 1-based
// index.
//
// Two implementations are provided. Lines keeps the corpus in memory
// and suits tests and small corpora. File serves lines straight from
// the corpus file through a byte-offset index built when the store is
// opened; because the file is treated as immutable, lookups use ReadAt
// and are safe for concurrent use without locking.
//
// OpenFileCached persists the offset index next to the corpus so a
// restart can skip the scan. The cache carries an xxh3 fingerprint of
// the corpus content; a corpus that changed on disk invalidates it.
package store
