package fingerprint

// Fingerprint is one (hash, songId, anchorTime) triple produced by
// fanning an anchor peak out to nearby target peaks.
type Fingerprint struct {
	Hash       Hash
	SongID     int
	AnchorTime int // frame index of the anchor peak
}

// FanParams bounds the target zone a fingerprint constructor searches.
type FanParams struct {
	MinDelta int // inclusive lower bound on target.Time - anchor.Time
	MaxDelta int // inclusive upper bound on target.Time - anchor.Time
	FanOut   int // max fingerprints emitted per anchor
}

// DefaultFanParams reproduces the spec's fixed target-zone profile.
func DefaultFanParams() FanParams {
	return FanParams{MinDelta: 1, MaxDelta: 45, FanOut: 5}
}

// Generate builds fingerprints from a peak list already sorted by
// (Time, Freq), tagging each with songID. For a query, songID is a
// sentinel the caller discards. peaks must be grouped by frame for the
// per-frame lookup below to be correct; PickPeaks already produces that
// ordering.
func Generate(peaks []Peak, songID int, params FanParams) []Fingerprint {
	if len(peaks) == 0 {
		return nil
	}

	framesOf := indexByFrame(peaks)

	fps := make([]Fingerprint, 0, len(peaks)*params.FanOut)
	for _, anchor := range peaks {
		fanCount := 0
		for dt := params.MinDelta; dt <= params.MaxDelta && fanCount < params.FanOut; dt++ {
			targetFrame := anchor.Time + dt
			indices, ok := framesOf[targetFrame]
			if !ok {
				continue
			}
			for _, j := range indices {
				target := peaks[j]
				h := PackHash(anchor.Freq, target.Freq, dt)
				fps = append(fps, Fingerprint{Hash: h, SongID: songID, AnchorTime: anchor.Time})
				fanCount++
				if fanCount >= params.FanOut {
					break
				}
			}
		}
	}
	return fps
}

// indexByFrame groups peak indices by frame index, preserving the
// within-frame lexicographic order peaks already carry.
func indexByFrame(peaks []Peak) map[int][]int {
	byFrame := make(map[int][]int)
	for i, p := range peaks {
		byFrame[p.Time] = append(byFrame[p.Time], i)
	}
	return byFrame
}
