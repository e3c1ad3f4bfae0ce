// File path: internal/window/window_test.go
package window

import (
	"testing"

	"github.com/coddog/coddog/internal/hashfp"
)

func testSeed() hashfp.Seed { return hashfp.Seed{K0: 1, K1: 2} }

// TestWindowCount covers invariant 1: a stream of length n >= w produces
// exactly n-w+1 windows with strictly increasing positions starting at 0.
func TestWindowCount(t *testing.T) {
	seed := testSeed()
	equiv := make([]uint64, 20)
	for i := range equiv {
		equiv[i] = uint64(i * 7)
	}
	windows := Extract(seed, equiv, 8)
	if len(windows) != 13 {
		t.Fatalf("len = %d, want 13", len(windows))
	}
	if Count(20, 8) != 13 {
		t.Fatalf("Count = %d, want 13", Count(20, 8))
	}
	for i, w := range windows {
		if w.Pos != i {
			t.Fatalf("window %d has pos %d", i, w.Pos)
		}
	}
}

// TestShortStreamProducesNoWindows covers the design note that symbols
// with len < W are silently excluded, not errored.
func TestShortStreamProducesNoWindows(t *testing.T) {
	seed := testSeed()
	equiv := []uint64{1, 2, 3}
	windows := Extract(seed, equiv, 8)
	if windows != nil {
		t.Fatalf("expected nil windows, got %v", windows)
	}
	if Count(3, 8) != 0 {
		t.Fatalf("Count = %d, want 0", Count(3, 8))
	}
}

// TestWindowHashIndependentOfPosition covers the contract that two
// identical W-length subsequences at different positions hash identically.
func TestWindowHashIndependentOfPosition(t *testing.T) {
	seed := testSeed()
	equiv := make([]uint64, 24)
	for i := range equiv {
		equiv[i] = uint64(i)
	}
	copy(equiv[16:24], equiv[0:8])
	windows := Extract(seed, equiv, 8)
	if windows[0].Hash != windows[16].Hash {
		t.Fatalf("equal subsequences hashed differently: %x vs %x", windows[0].Hash, windows[16].Hash)
	}
}

// TestDeterminism covers invariant 7 at the window level.
func TestDeterminism(t *testing.T) {
	seed := testSeed()
	equiv := []uint64{9, 8, 7, 6, 5, 4, 3, 2, 1, 0}
	first := Extract(seed, equiv, 8)
	second := Extract(seed, equiv, 8)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("non-deterministic window at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}
