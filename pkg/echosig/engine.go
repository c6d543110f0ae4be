// Package echosig implements an in-memory acoustic fingerprinting
// engine: songs are ingested as PCM audio and broken into
// content-addressable fingerprints, and later audio clips are
// identified by voting on which catalog song shares the most
// fingerprints at a consistent time offset.
package echosig

import (
	"errors"
	"sort"
	"sync"

	"github.com/devspire/echosig/pkg/echosig/fingerprint"
	"github.com/devspire/echosig/pkg/echosig/index"
	"github.com/devspire/echosig/pkg/echosig/registry"
)

// queryDoneID marks fingerprints generated for a query rather than a
// catalog song; it is never a valid registry id.
const queryDoneID = -1

// Engine is the top-level, concurrency-safe entry point: it owns the
// fingerprint index and the song registry behind a single read-write
// lock. AddSong takes the write lock so an ingest's index insert and
// registry append become visible atomically; Identify takes the read
// lock so a lookup never observes a half-ingested song.
type Engine struct {
	mu  sync.RWMutex
	idx *index.Index
	reg *registry.Registry
	cfg Config
}

// NewEngine builds an Engine with the given options applied over the
// fixed default signal-processing profile.
func NewEngine(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		idx: index.New(),
		reg: registry.New(),
		cfg: cfg,
	}
}

// AddSong fingerprints pcm and appends it to the catalog under the
// given display name and external reference (e.g. a source URL, or
// empty if not applicable). It returns the assigned song id.
func (e *Engine) AddSong(pcm []float64, displayName, externalRef string) (int, error) {
	fps, err := e.fingerprintAudio(pcm, 0)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.reg.Append(displayName, externalRef, len(fps))
	for i := range fps {
		fps[i].SongID = id
	}
	e.idx.InsertBatch(fps)

	e.cfg.Logger.Infof("added song %d %q (%d fingerprints)", id, displayName, len(fps))
	return id, nil
}

// ListSongs returns a snapshot of the full catalog in append order.
func (e *Engine) ListSongs() []Song {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.reg.Snapshot()
}

// Identify fingerprints pcm as a query and votes it against the
// catalog, returning up to the top 5 ranked candidates. A well-formed
// "no match" outcome has Err == nil and Matched == false; Err is
// reserved for input problems such as audio too short to analyze.
// The too-short and empty-catalog rejections are checked up front, in
// that order, before any spectrogram or peak-picking work runs.
func (e *Engine) Identify(pcm []float64) IdentifyResult {
	if len(pcm) < e.cfg.WindowSize {
		return IdentifyResult{Err: ErrTooShort}
	}

	e.mu.RLock()
	empty := e.reg.Len() == 0
	e.mu.RUnlock()
	if empty {
		return IdentifyResult{Err: ErrDBEmpty}
	}

	fps, err := e.fingerprintAudio(pcm, queryDoneID)
	if errors.Is(err, ErrNoPeaks) || errors.Is(err, ErrNoFingerprints) {
		return IdentifyResult{Err: ErrNoQueryFingerprints}
	}
	if err != nil {
		return IdentifyResult{Err: err}
	}
	if len(fps) == 0 {
		return IdentifyResult{Err: ErrNoQueryFingerprints}
	}

	e.mu.RLock()
	candidates := e.vote(fps)
	e.mu.RUnlock()
	if len(candidates) == 0 {
		return IdentifyResult{Matched: false}
	}

	winner := candidates[0]
	return IdentifyResult{
		Matched:      true,
		SongID:       winner.SongID,
		DisplayName:  winner.DisplayName,
		ExternalRef:  winner.ExternalRef,
		Score:        winner.Score,
		OffsetFrames: winner.OffsetFrames,
		Top:          candidates,
	}
}

// fingerprintAudio runs the shared spectrogram -> peaks -> fingerprint
// pipeline. songID is attached to every fingerprint as produced; for a
// query, AddSong/Identify overwrite or ignore it as appropriate.
func (e *Engine) fingerprintAudio(pcm []float64, songID int) ([]fingerprint.Fingerprint, error) {
	spec := fingerprint.BuildSpectrogram(pcm, e.cfg.WindowSize, e.cfg.HopSize)
	if spec == nil {
		return nil, ErrTooShort
	}

	peaks := fingerprint.PickPeaks(spec, e.cfg.MinFreqBin, e.cfg.PeakCount)
	if len(peaks) == 0 {
		return nil, ErrNoPeaks
	}

	fps := fingerprint.Generate(peaks, songID, e.cfg.Fan)
	if len(fps) == 0 {
		return nil, ErrNoFingerprints
	}
	return fps, nil
}

// voteKey identifies one (song, time-offset) voting bucket.
type voteKey struct {
	songID int
	delta  int
}

// vote runs the offset-histogram voting algorithm: each query
// fingerprint that matches a catalog hash casts a vote for the
// (song, dbAnchorTime-queryAnchorTime) bucket it implies, and each
// song's score is the size of its largest bucket. Ties in a song's
// best bucket, and ties between songs' best scores, are broken by
// which bucket was first observed while scanning the query's
// fingerprints in order.
func (e *Engine) vote(queryFPs []fingerprint.Fingerprint) []Candidate {
	counts := make(map[voteKey]int)
	seq := make([]voteKey, 0)
	seen := make(map[voteKey]bool)

	for _, fp := range queryFPs {
		for _, loc := range e.idx.Lookup(fp.Hash) {
			key := voteKey{songID: loc.SongID, delta: loc.AnchorTime - fp.AnchorTime}
			counts[key]++
			if !seen[key] {
				seen[key] = true
				seq = append(seq, key)
			}
		}
	}

	bestScore := make(map[int]int)
	bestOffset := make(map[int]int)
	songOrder := make(map[int]int)

	for i, key := range seq {
		if _, ok := songOrder[key.songID]; !ok {
			songOrder[key.songID] = i
		}
		if count := counts[key]; count > bestScore[key.songID] {
			bestScore[key.songID] = count
			bestOffset[key.songID] = key.delta
		}
	}

	candidates := make([]Candidate, 0, len(bestScore))
	for songID, score := range bestScore {
		song, ok := e.reg.Get(songID)
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			SongID:       songID,
			DisplayName:  song.DisplayName,
			ExternalRef:  song.ExternalRef,
			Score:        score,
			OffsetFrames: bestOffset[songID],
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return songOrder[candidates[i].SongID] < songOrder[candidates[j].SongID]
	})

	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	return candidates
}
