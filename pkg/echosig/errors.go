package echosig

import "errors"

// Sentinel errors returned by Engine operations. Callers should compare
// against these with errors.Is rather than string-matching.
var (
	// ErrTooShort is returned when the input has fewer samples than one
	// STFT window, so no spectrogram frame can be built at all.
	ErrTooShort = errors.New("echosig: audio shorter than one analysis window")

	// ErrNoPeaks is returned when a spectrogram produced zero usable
	// peaks, e.g. every frame's energy fell below the minimum frequency
	// bin examined.
	ErrNoPeaks = errors.New("echosig: no spectral peaks found")

	// ErrNoFingerprints is returned when peak picking succeeded but
	// fan-out hashing produced no fingerprints at all (too few peaks to
	// pair up within the configured delta window).
	ErrNoFingerprints = errors.New("echosig: no fingerprints generated")

	// ErrDBEmpty is returned by Identify when the engine's catalog has
	// no songs at all.
	ErrDBEmpty = errors.New("echosig: song catalog is empty")

	// ErrNoQueryFingerprints is returned by Identify when the query
	// audio itself produced no fingerprints (distinct from the catalog
	// being empty).
	ErrNoQueryFingerprints = errors.New("echosig: query produced no fingerprints")
)
