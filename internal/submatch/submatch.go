// File path: internal/submatch/submatch.go
// Package submatch implements the Submatch Algorithm in pure Go: anchor
// retrieval over an in-memory window index, diagonal grouping, and maximal
// run reconstruction. This mirrors the structure of the single declarative
// SQL statement internal/store/submatch.go pushes to PostgreSQL (see the
// design note on schema-encoded algorithms); it exists so the core
// invariants can be proven without a live database, and as a fallback
// reconstruction path for backing stores that cannot express the CTE.
package submatch

import (
	"sort"

	"github.com/coddog/coddog/internal/coderr"
)

// Anchor is a single (query_pos, match_pos, symbol) triple produced by the
// window self-join: a hash shared between the query symbol's window at
// QueryPos and another symbol's window at MatchPos.
type Anchor struct {
	SymbolID int64
	QueryPos int
	MatchPos int
}

// Run is one maximal contiguous shared instruction run, in instruction
// units: for every k in [0, Len-W], the window at QueryStart+k in the query
// symbol equals the window at MatchStart+k in SymbolID.
type Run struct {
	SymbolID   int64
	QueryStart int
	MatchStart int
	Len        int
}

// Request bounds and shapes one submatch query.
type Request struct {
	Start, End int // instruction-index range, inclusive
	MinLen     int // L; clamped to W by the caller if below it
	W          int // window width
}

// BuildAnchors performs the self-join step in-process: for every query
// window whose position falls in [req.Start, req.End-W+1], it finds every
// other symbol's window with the same hash. Self-matches (against the
// query's own symbol) are excluded by construction since otherWindows must
// not include the query symbol's own id.
func BuildAnchors(query []WindowHash, otherWindows map[int64][]WindowHash, req Request) ([]Anchor, error) {
	if req.Start > req.End {
		return nil, coderr.ErrInvalidRange
	}
	index := make(map[uint64][]matchPos)
	for symbolID, windows := range otherWindows {
		for _, w := range windows {
			index[w.Hash] = append(index[w.Hash], matchPos{symbolID: symbolID, pos: w.Pos})
		}
	}
	lastQueryPos := req.End - req.W + 1
	var anchors []Anchor
	for _, qw := range query {
		if qw.Pos < req.Start || qw.Pos > lastQueryPos {
			continue
		}
		for _, m := range index[qw.Hash] {
			anchors = append(anchors, Anchor{SymbolID: m.symbolID, QueryPos: qw.Pos, MatchPos: m.pos})
		}
	}
	return anchors, nil
}

// WindowHash is the (pos, hash) pair this package consumes; it is
// structurally identical to window.Window but declared independently so
// this package has no dependency on the window extractor.
type WindowHash struct {
	Pos  int
	Hash uint64
}

type matchPos struct {
	symbolID int64
	pos      int
}

// Reconstruct groups anchors by (symbol, diagonal), partitions each group
// into maximal consecutive-QueryPos runs, and emits one Run per run whose
// derived length meets req.MinLen. This is steps 2-4 of the algorithm.
func Reconstruct(anchors []Anchor, req Request) []Run {
	type groupKey struct {
		symbolID int64
		diagonal int
	}
	groups := make(map[groupKey][]int) // diagonal group -> sorted query positions
	for _, a := range anchors {
		key := groupKey{symbolID: a.SymbolID, diagonal: a.QueryPos - a.MatchPos}
		groups[key] = append(groups[key], a.QueryPos)
	}

	var runs []Run
	for key, positions := range groups {
		sort.Ints(positions)
		start := 0
		for i := 1; i <= len(positions); i++ {
			if i < len(positions) && positions[i] == positions[i-1]+1 {
				continue
			}
			// positions[start:i] is one maximal consecutive run.
			k := i - start
			length := k + req.W - 1
			if length >= req.MinLen {
				q0 := positions[start]
				runs = append(runs, Run{
					SymbolID:   key.symbolID,
					QueryStart: q0,
					MatchStart: q0 - key.diagonal,
					Len:        length,
				})
			}
			start = i
		}
	}
	return runs
}

// SortKey selects the primary sort column for FindSubmatches results.
type SortKey int

const (
	SortByLength SortKey = iota
	SortByQueryStart
)

// SortDir selects ascending or descending order for the primary key.
type SortDir int

const (
	Descending SortDir = iota
	Ascending
)

// Page bounds a pagination cursor.
type Page struct {
	Num, Size int
}

// Result is the { total, rows } shape find_submatches returns.
type Result struct {
	Total int
	Rows  []Run
}

// Sort orders runs by the requested key, tiebreaking by symbol id then
// query/match start. The SQL ORDER BY in internal/store tiebreaks on
// project and source id before these; a Run carries neither.
func Sort(runs []Run, key SortKey, dir SortDir) {
	sort.SliceStable(runs, func(i, j int) bool {
		a, b := runs[i], runs[j]
		var primaryCmp int
		switch key {
		case SortByQueryStart:
			primaryCmp = compareInt(a.QueryStart, b.QueryStart)
		default:
			primaryCmp = compareInt(a.Len, b.Len)
		}
		if dir == Descending {
			primaryCmp = -primaryCmp
		}
		if primaryCmp != 0 {
			return primaryCmp < 0
		}
		if a.SymbolID != b.SymbolID {
			return a.SymbolID < b.SymbolID
		}
		if a.QueryStart != b.QueryStart {
			return a.QueryStart < b.QueryStart
		}
		return a.MatchStart < b.MatchStart
	})
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Paginate applies the "sort the full set, then slice" contract mandated
// by the design notes' resolved open question.
func Paginate(runs []Run, page Page) Result {
	total := len(runs)
	if page.Size <= 0 {
		return Result{Total: total}
	}
	start := page.Num * page.Size
	if start < 0 || start >= total {
		return Result{Total: total}
	}
	end := start + page.Size
	if end > total {
		end = total
	}
	return Result{Total: total, Rows: runs[start:end]}
}

// FindSubmatches runs the full pipeline — anchor retrieval, diagonal
// grouping, sort, pagination — against an in-memory window index. L below
// W is clamped to W, mirroring the design's documented clamp-with-warning
// policy.
func FindSubmatches(query []WindowHash, otherWindows map[int64][]WindowHash, req Request, key SortKey, dir SortDir, page Page) (Result, error) {
	if req.MinLen < req.W {
		req.MinLen = req.W
	}
	anchors, err := BuildAnchors(query, otherWindows, req)
	if err != nil {
		return Result{}, err
	}
	runs := Reconstruct(anchors, req)
	Sort(runs, key, dir)
	return Paginate(runs, page), nil
}
