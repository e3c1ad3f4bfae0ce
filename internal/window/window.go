// File path: internal/window/window.go
// Package window implements the Window Extractor: fixed-length sliding
// windows over a symbol's equivalence-fidelity instruction hash stream.
package window

import "github.com/coddog/coddog/internal/hashfp"

// Window is one (position, hash) pair as persisted by the Index Store.
type Window struct {
	Pos  int
	Hash uint64
}

// Extract produces the Window set for a symbol's equivalence hash stream
// under window width w. Symbols shorter than w produce no windows, per the
// design note that short symbols are silently excluded from submatch
// results rather than treated as an error.
//
// The hash of each window is computed from scratch, not incrementally: a
// running SipHash-fed accumulator is not used (SipHash is not naturally
// incremental), so each window folds its W member hashes with the same seed
// used to build them,
// keeping the contract — deterministic, independent of pos — satisfied
// without claiming true O(1) updates.
func Extract(seed hashfp.Seed, equivStream []uint64, w int) []Window {
	n := len(equivStream)
	if w <= 0 || n < w {
		return nil
	}
	windows := make([]Window, 0, n-w+1)
	buf := make([]byte, 8*w)
	for pos := 0; pos <= n-w; pos++ {
		for j := 0; j < w; j++ {
			putUint64(buf[j*8:], equivStream[pos+j])
		}
		windows = append(windows, Window{Pos: pos, Hash: seed.Sum64(buf)})
	}
	return windows
}

func putUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}

// Count reports how many windows a stream of length n produces under width
// w, matching testable invariant 1 without materializing the slice.
func Count(n, w int) int {
	if w <= 0 || n < w {
		return 0
	}
	return n - w + 1
}
