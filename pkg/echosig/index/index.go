// Package index implements the in-memory fingerprint multimap: hash ->
// list of (songID, anchorTime) locators.
//
// Index is a plain value type with no internal locking. The engine that
// owns an Index is responsible for serializing access to it alongside
// the song registry, so that an ingest never becomes visible to a
// concurrent identification half-written (see the engine package).
package index

import "github.com/devspire/echosig/pkg/echosig/fingerprint"

// Locator pins a fingerprint occurrence to a song and the frame at
// which its anchor peak was found.
type Locator struct {
	SongID     int
	AnchorTime int
}

// Index maps a fingerprint hash to every locator that produced it.
// Duplicate (hash, locator) pairs are permitted and not deduplicated —
// they act as multiplicity weights during voting.
type Index struct {
	buckets map[fingerprint.Hash][]Locator
}

// New returns an empty Index.
func New() *Index {
	return &Index{buckets: make(map[fingerprint.Hash][]Locator)}
}

// InsertBatch appends every fingerprint in fps to its hash bucket. The
// caller is expected to insert a whole song's fingerprints in one call
// so a reader never observes a partially-inserted song.
func (idx *Index) InsertBatch(fps []fingerprint.Fingerprint) {
	for _, fp := range fps {
		idx.buckets[fp.Hash] = append(idx.buckets[fp.Hash], Locator{
			SongID:     fp.SongID,
			AnchorTime: fp.AnchorTime,
		})
	}
}

// Lookup returns the bucket for h, or nil if h was never inserted. The
// returned slice must not be mutated by the caller.
func (idx *Index) Lookup(h fingerprint.Hash) []Locator {
	return idx.buckets[h]
}

// Len returns the number of distinct hashes currently indexed.
func (idx *Index) Len() int {
	return len(idx.buckets)
}
