package echosig

import "github.com/devspire/echosig/pkg/echosig/registry"

// Song is a catalog entry as seen by callers outside the package.
type Song = registry.Song

// Candidate is one ranked result from an identification, ordered by
// descending Score.
type Candidate struct {
	SongID       int
	DisplayName  string
	ExternalRef  string
	Score        int // raw vote count at the winning offset
	OffsetFrames int // db anchor time - query anchor time, at the winning offset
}

// IdentifyResult is the outcome of a single Identify call. Err and
// Matched are deliberately independent: a well-formed "no match" result
// has Err == nil and Matched == false, distinct from an input error
// such as ErrTooShort.
type IdentifyResult struct {
	Err     error
	Matched bool

	SongID       int
	DisplayName  string
	ExternalRef  string
	Score        int
	OffsetFrames int

	// Top holds up to the top 5 ranked candidates, winner first. It is
	// populated whenever voting produced at least one candidate, even
	// if Matched is false because the winner fell below threshold — in
	// the current design there is no threshold, so Matched mirrors
	// len(Top) > 0.
	Top []Candidate
}
