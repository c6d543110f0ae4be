package echosig

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"testing"
)

// tone builds a deterministic multi-partial waveform long enough to
// produce several STFT frames, standing in for real audio content.
func tone(numSamples int) []float64 {
	samples := make([]float64, numSamples)
	freqs := []float64{220, 440, 880, 1760}
	for i := range samples {
		var v float64
		for _, f := range freqs {
			v += math.Sin(2 * math.Pi * f * float64(i) / 11025.0)
		}
		samples[i] = v / float64(len(freqs))
	}
	return samples
}

// noise builds a deterministic pseudo-random waveform whose spectrum
// differs from frame to frame, so a clip cut from it lines up with the
// original at exactly one offset (a stationary tone matches at every
// offset equally).
func noise(numSamples int) []float64 {
	rng := rand.New(rand.NewSource(1))
	samples := make([]float64, numSamples)
	for i := range samples {
		samples[i] = rng.Float64()*2 - 1
	}
	return samples
}

func TestAddSongAndListSongs(t *testing.T) {
	eng := NewEngine()
	pcm := tone(20000)

	id, err := eng.AddSong(pcm, "Test Song", "ref-1")
	if err != nil {
		t.Fatalf("AddSong failed: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected first song to get id 0, got %d", id)
	}

	songs := eng.ListSongs()
	if len(songs) != 1 {
		t.Fatalf("expected 1 song, got %d", len(songs))
	}
	if songs[0].DisplayName != "Test Song" || songs[0].ExternalRef != "ref-1" {
		t.Errorf("unexpected song fields: %+v", songs[0])
	}
	if songs[0].NumFingerprints == 0 {
		t.Errorf("expected a positive fingerprint count")
	}
}

func TestAddSongTooShort(t *testing.T) {
	eng := NewEngine()
	_, err := eng.AddSong(make([]float64, 10), "short", "")
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", err)
	}
}

func TestIdentifyEmptyCatalog(t *testing.T) {
	eng := NewEngine()
	result := eng.Identify(tone(20000))
	if !errors.Is(result.Err, ErrDBEmpty) {
		t.Fatalf("expected ErrDBEmpty, got %v", result.Err)
	}
}

func TestIdentifyTooShort(t *testing.T) {
	eng := NewEngine()
	result := eng.Identify(make([]float64, 10))
	if !errors.Is(result.Err, ErrTooShort) {
		t.Fatalf("expected ErrTooShort, got %v", result.Err)
	}
}

func TestIdentifyExactMatch(t *testing.T) {
	eng := NewEngine()
	pcm := tone(30000)

	id, err := eng.AddSong(pcm, "Exact", "")
	if err != nil {
		t.Fatalf("AddSong failed: %v", err)
	}

	result := eng.Identify(pcm)
	if result.Err != nil {
		t.Fatalf("Identify failed: %v", result.Err)
	}
	if !result.Matched {
		t.Fatal("expected a match on an exact-copy query")
	}
	if result.SongID != id {
		t.Fatalf("expected SongID %d, got %d", id, result.SongID)
	}
	if result.OffsetFrames != 0 {
		t.Errorf("expected offset 0 for an unshifted query, got %d", result.OffsetFrames)
	}
	if result.Score == 0 {
		t.Error("expected a positive score")
	}
}

func TestIdentifyShiftedQueryReportsOffset(t *testing.T) {
	eng := NewEngine()
	pcm := noise(60000)

	id, err := eng.AddSong(pcm, "Shifted", "")
	if err != nil {
		t.Fatalf("AddSong failed: %v", err)
	}

	const shiftFrames = 5
	cfg := defaultConfig()
	query := pcm[shiftFrames*cfg.HopSize:]

	result := eng.Identify(query)
	if result.Err != nil {
		t.Fatalf("Identify failed: %v", result.Err)
	}
	if !result.Matched || result.SongID != id {
		t.Fatalf("expected a match against song %d, got %+v", id, result)
	}
	if result.OffsetFrames != shiftFrames {
		t.Errorf("expected offset %d, got %d", shiftFrames, result.OffsetFrames)
	}
}

func TestIdentifyNoMatchAmongUnrelatedCatalog(t *testing.T) {
	eng := NewEngine()
	if _, err := eng.AddSong(tone(20000), "Unrelated", ""); err != nil {
		t.Fatalf("AddSong failed: %v", err)
	}

	silence := make([]float64, 20000)
	result := eng.Identify(silence)
	if result.Err != nil && !errors.Is(result.Err, ErrNoQueryFingerprints) {
		t.Fatalf("unexpected error identifying silence: %v", result.Err)
	}
}

func TestIdentifyRanksMultipleSongs(t *testing.T) {
	eng := NewEngine()
	pcmA := tone(40000)
	pcmB := tone(40000)
	// Make B distinguishable in the time domain while keeping the same
	// partials, so both songs still produce comparable fingerprints.
	for i := range pcmB {
		pcmB[i] *= 0.5
	}

	idA, _ := eng.AddSong(pcmA, "A", "")
	_, _ = eng.AddSong(pcmB, "B", "")

	result := eng.Identify(pcmA)
	if result.Err != nil {
		t.Fatalf("Identify failed: %v", result.Err)
	}
	if len(result.Top) == 0 {
		t.Fatal("expected at least one ranked candidate")
	}
	if result.Top[0].SongID != idA {
		t.Errorf("expected song A to rank first for its own query, got %+v", result.Top[0])
	}
	for i := 1; i < len(result.Top); i++ {
		if result.Top[i-1].Score < result.Top[i].Score {
			t.Fatalf("candidates not sorted by descending score: %+v", result.Top)
		}
	}
}

func TestConcurrentAddSongYieldsDistinctContiguousIDs(t *testing.T) {
	eng := NewEngine()
	const numSongs = 20

	var wg sync.WaitGroup
	ids := make([]int, numSongs)
	errs := make([]error, numSongs)
	for i := 0; i < numSongs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := eng.AddSong(tone(20000), fmt.Sprintf("song-%d", i), "")
			ids[i] = id
			errs[i] = err
		}(i)
	}
	wg.Wait()

	seen := make(map[int]bool, numSongs)
	for i, err := range errs {
		if err != nil {
			t.Fatalf("AddSong %d failed: %v", i, err)
		}
		if seen[ids[i]] {
			t.Fatalf("duplicate song id %d", ids[i])
		}
		seen[ids[i]] = true
	}
	for id := 0; id < numSongs; id++ {
		if !seen[id] {
			t.Fatalf("ids not contiguous: missing %d among %v", id, ids)
		}
	}

	songs := eng.ListSongs()
	if len(songs) != numSongs {
		t.Fatalf("expected %d songs in catalog, got %d", numSongs, len(songs))
	}

	result := eng.Identify(tone(20000))
	if result.Err != nil {
		t.Fatalf("Identify failed against a catalog built from concurrent ingests: %v", result.Err)
	}
	for _, c := range result.Top {
		if _, ok := eng.reg.Get(c.SongID); !ok {
			t.Fatalf("candidate references song %d missing from registry", c.SongID)
		}
	}
}

func TestInterleavedAddAndIdentifyNeverReferencesHalfIngestedSong(t *testing.T) {
	eng := NewEngine()
	const numSongs = 10
	const numQueries = 30

	var wg sync.WaitGroup
	for i := 0; i < numSongs; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := eng.AddSong(tone(20000), fmt.Sprintf("song-%d", i), ""); err != nil {
				t.Errorf("AddSong %d failed: %v", i, err)
			}
		}(i)
	}
	for i := 0; i < numQueries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := eng.Identify(tone(20000))
			if result.Err != nil {
				return
			}
			songs := eng.ListSongs()
			for _, c := range result.Top {
				found := false
				for _, song := range songs {
					if song.ID == c.SongID {
						found = true
						if song.NumFingerprints == 0 {
							t.Errorf("matched song %d has no fingerprints", c.SongID)
						}
						break
					}
				}
				if !found {
					t.Errorf("identify returned song %d not present in catalog snapshot", c.SongID)
				}
			}
		}()
	}
	wg.Wait()
}

func TestIdentifyTopCappedAtFive(t *testing.T) {
	eng := NewEngine()
	for i := 0; i < 7; i++ {
		if _, err := eng.AddSong(tone(20000), "dup", ""); err != nil {
			t.Fatalf("AddSong failed: %v", err)
		}
	}
	result := eng.Identify(tone(20000))
	if result.Err != nil {
		t.Fatalf("Identify failed: %v", result.Err)
	}
	if len(result.Top) > 5 {
		t.Fatalf("expected at most 5 ranked candidates, got %d", len(result.Top))
	}
}
