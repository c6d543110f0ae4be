// Package registry holds the append-only catalog of songs known to an
// engine. Registry is a plain value type with no internal locking; the
// owning engine serializes access to it alongside the fingerprint index.
package registry

// Song is one catalog entry. ID is assigned by the registry at Append
// time and never reused, even if the engine later grows a delete path.
type Song struct {
	ID              int
	DisplayName     string
	ExternalRef     string // e.g. a source URL; empty if not applicable
	NumFingerprints int
}

// Registry is an append-only, order-preserving list of songs.
type Registry struct {
	songs []Song
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Append adds a song with the given fields to the catalog, assigning it the next id (the
// registry's length before the append) and returning that id.
func (r *Registry) Append(displayName, externalRef string, numFingerprints int) int {
	id := len(r.songs)
	r.songs = append(r.songs, Song{
		ID:              id,
		DisplayName:     displayName,
		ExternalRef:     externalRef,
		NumFingerprints: numFingerprints,
	})
	return id
}

// Get returns the song with the given id and true, or a zero Song and
// false if id is out of range.
func (r *Registry) Get(id int) (Song, bool) {
	if id < 0 || id >= len(r.songs) {
		return Song{}, false
	}
	return r.songs[id], true
}

// Snapshot returns a copy of the full catalog in append order. Callers
// may freely mutate the returned slice.
func (r *Registry) Snapshot() []Song {
	out := make([]Song, len(r.songs))
	copy(out, r.songs)
	return out
}

// Len returns the number of songs in the catalog.
func (r *Registry) Len() int {
	return len(r.songs)
}
