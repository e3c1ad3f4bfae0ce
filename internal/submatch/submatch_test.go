// File path: internal/submatch/submatch_test.go
package submatch

import "testing"

func windows(hashes ...uint64) []WindowHash {
	out := make([]WindowHash, len(hashes))
	for i, h := range hashes {
		out[i] = WindowHash{Pos: i, Hash: h}
	}
	return out
}

// TestExactDuplicate covers scenario S2: two symbols with identical streams
// should produce one full-length run.
func TestExactDuplicate(t *testing.T) {
	const w = 8
	const length = 20
	hashes := make([]uint64, length-w+1)
	for i := range hashes {
		hashes[i] = uint64(100 + i)
	}
	a := windows(hashes...)
	b := windows(hashes...)

	req := Request{Start: 0, End: length - 1, MinLen: w, W: w}
	result, err := FindSubmatches(a, map[int64][]WindowHash{2: b}, req, SortByLength, Descending, Page{Num: 0, Size: 10})
	if err != nil {
		t.Fatalf("FindSubmatches: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("total = %d, want 1", result.Total)
	}
	run := result.Rows[0]
	if run.SymbolID != 2 || run.QueryStart != 0 || run.MatchStart != 0 || run.Len != length {
		t.Fatalf("unexpected run: %+v", run)
	}
}

// TestPartialOverlap covers scenario S4: A and B share one 20-instruction
// run starting at query position 10.
func TestPartialOverlap(t *testing.T) {
	const w = 8
	// A and B both have 33 windows (len 40) and share instructions [10, 30).
	// The windows lying wholly inside that run are windows[10:23) (20-w+1 of
	// them), equal in A and B.
	a := make([]WindowHash, 33)
	for i := range a {
		a[i] = WindowHash{Pos: i, Hash: uint64(1000 + i)}
	}
	b := make([]WindowHash, 33)
	for i := range b {
		b[i] = WindowHash{Pos: i, Hash: uint64(9000 + i)} // disjoint by default
	}
	for i := 0; i < 20-w+1; i++ {
		b[10+i] = WindowHash{Pos: 10 + i, Hash: a[10+i].Hash}
	}

	req := Request{Start: 0, End: 39, MinLen: 10, W: w}
	result, err := FindSubmatches(a, map[int64][]WindowHash{7: b}, req, SortByLength, Descending, Page{Num: 0, Size: 10})
	if err != nil {
		t.Fatalf("FindSubmatches: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("total = %d, want 1 (%+v)", result.Total, result.Rows)
	}
	run := result.Rows[0]
	if run.QueryStart != 10 || run.MatchStart != 10 || run.Len != 20 {
		t.Fatalf("unexpected run: %+v", run)
	}
}

// TestTwoDiagonals covers scenario S5: A repeats a 16-instruction block at
// positions 0 and 30; B has it once at position 5. Two independent rows.
func TestTwoDiagonals(t *testing.T) {
	const w = 8
	blockLen := 16 - w + 1 // number of windows covering the repeated block
	a := make([]WindowHash, 39) // len 46: the block at 30 ends at instruction 45
	for i := range a {
		a[i] = WindowHash{Pos: i, Hash: uint64(2000 + i)}
	}
	block := make([]uint64, blockLen)
	for i := range block {
		block[i] = uint64(555000 + i)
	}
	for i := 0; i < blockLen; i++ {
		a[i].Hash = block[i]
		a[30+i].Hash = block[i]
	}
	b := make([]WindowHash, 14) // len 21: the block at 5 ends at instruction 20
	for i := range b {
		b[i] = WindowHash{Pos: i, Hash: uint64(7000 + i)}
	}
	for i := 0; i < blockLen; i++ {
		b[5+i] = WindowHash{Pos: 5 + i, Hash: block[i]}
	}

	req := Request{Start: 0, End: 45, MinLen: 16, W: w}
	result, err := FindSubmatches(a, map[int64][]WindowHash{3: b}, req, SortByQueryStart, Ascending, Page{Num: 0, Size: 10})
	if err != nil {
		t.Fatalf("FindSubmatches: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("total = %d, want 2 (%+v)", result.Total, result.Rows)
	}
	if result.Rows[0].QueryStart != 0 || result.Rows[0].MatchStart != 5 || result.Rows[0].Len != 16 {
		t.Fatalf("unexpected first row: %+v", result.Rows[0])
	}
	if result.Rows[1].QueryStart != 30 || result.Rows[1].MatchStart != 5 || result.Rows[1].Len != 16 {
		t.Fatalf("unexpected second row: %+v", result.Rows[1])
	}
}

// TestBelowThreshold covers scenario S6: shared runs below L produce a
// zero-count result, not an error.
func TestBelowThreshold(t *testing.T) {
	const w = 8
	a := windows(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	b := windows(1, 2, 3, 99, 99, 99, 99, 99, 99, 99)

	req := Request{Start: 0, End: 9, MinLen: 16, W: w}
	result, err := FindSubmatches(a, map[int64][]WindowHash{5: b}, req, SortByLength, Descending, Page{Num: 0, Size: 10})
	if err != nil {
		t.Fatalf("FindSubmatches: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("total = %d, want 0 (%+v)", result.Total, result.Rows)
	}
}

// TestSymmetricUpToRoleSwap covers invariant 4: querying from B should
// return the mirror-image run of querying from A.
func TestSymmetricUpToRoleSwap(t *testing.T) {
	const w = 8
	a := make([]WindowHash, 20)
	for i := range a {
		a[i] = WindowHash{Pos: i, Hash: uint64(i)}
	}
	b := make([]WindowHash, 20)
	for i := range b {
		b[i] = WindowHash{Pos: i, Hash: uint64(i)}
	}

	reqA := Request{Start: 0, End: 19, MinLen: w, W: w}
	fromA, err := FindSubmatches(a, map[int64][]WindowHash{2: b}, reqA, SortByLength, Descending, Page{Num: 0, Size: 10})
	if err != nil {
		t.Fatalf("FindSubmatches(A): %v", err)
	}
	fromB, err := FindSubmatches(b, map[int64][]WindowHash{1: a}, reqA, SortByLength, Descending, Page{Num: 0, Size: 10})
	if err != nil {
		t.Fatalf("FindSubmatches(B): %v", err)
	}
	if len(fromA.Rows) != 1 || len(fromB.Rows) != 1 {
		t.Fatalf("expected one row each: %+v %+v", fromA.Rows, fromB.Rows)
	}
	if fromA.Rows[0].QueryStart != fromB.Rows[0].MatchStart || fromA.Rows[0].MatchStart != fromB.Rows[0].QueryStart {
		t.Fatalf("not symmetric: %+v vs %+v", fromA.Rows[0], fromB.Rows[0])
	}
	if fromA.Rows[0].Len != fromB.Rows[0].Len {
		t.Fatalf("length mismatch: %d vs %d", fromA.Rows[0].Len, fromB.Rows[0].Len)
	}
}

// TestInvalidRange covers the start > end validation error.
func TestInvalidRange(t *testing.T) {
	a := windows(1, 2, 3)
	req := Request{Start: 5, End: 1, MinLen: 8, W: 8}
	if _, err := FindSubmatches(a, nil, req, SortByLength, Descending, Page{Num: 0, Size: 10}); err == nil {
		t.Fatal("expected an error for start > end")
	}
}
