// File path: internal/store/submatch.go
// find_submatches (§4.4) pushed down into a single CTE chain, following
// the "schema-encoded algorithm" design note and ported in structure from
// the original tool's query_windows_by_symbol_id: anchor self-join →
// diagonal + ROW_NUMBER() partition → group/length filter → join metadata
// with a COUNT(*) OVER() total → sort → paginate.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/submatch"
)

// mapQueryErr classifies a failed query: a cancelled or deadline-expired
// context (the client disconnected mid-request) maps to ErrCancelled per
// §7, rather than being folded into the generic backing-store-unavailable
// bucket alongside a dropped connection or a syntax error.
func mapQueryErr(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", coderr.ErrCancelled, msg, err)
	}
	return fmt.Errorf("%w: %s: %v", coderr.ErrBackingStoreUnavailable, msg, err)
}

// FindSubmatches implements find_submatches end to end against PostgreSQL.
func (s *Store) FindSubmatches(ctx context.Context, querySlug string, start, end, minLen int, key submatch.SortKey, dir submatch.SortDir, page submatch.Page, windowWidth int) (SubmatchResult, error) {
	if s == nil || s.db == nil {
		return SubmatchResult{}, coderr.ErrBackingStoreMissing
	}
	if start > end {
		return SubmatchResult{}, coderr.ErrInvalidRange
	}
	if minLen < windowWidth {
		minLen = windowWidth
	}

	queryID, err := s.symbolID(ctx, querySlug)
	if err != nil {
		return SubmatchResult{}, err
	}

	// A query window at position q covers instructions [q, q+W-1], so it can
	// only anchor a run whose match wholly falls within [start, end] when
	// q <= end-W+1 — the bound internal/submatch.BuildAnchors enforces.
	// Anchoring on a.pos <= end here would admit windows spilling past end.
	lastQueryPos := end - windowWidth + 1

	var anchorCount int64
	err = s.db.GetContext(ctx, &anchorCount, `
		SELECT COUNT(*)
		FROM windows a JOIN windows b ON a.hash = b.hash
		WHERE a.symbol_id = $1 AND a.pos >= $2 AND a.pos <= $3 AND b.symbol_id != $1`,
		queryID, start, lastQueryPos)
	if err != nil {
		return SubmatchResult{}, mapQueryErr(ctx, err, "count anchors")
	}
	if anchorCount > s.anchorCap {
		return SubmatchResult{}, fmt.Errorf("%w: %d anchors exceeds cap %d", coderr.ErrResourceExhausted, anchorCount, s.anchorCap)
	}

	orderBy := "fs.length DESC"
	if key == submatch.SortByQueryStart {
		orderBy = "fs.start_query_pos"
		if dir == submatch.Descending {
			orderBy += " DESC"
		}
	} else if dir == submatch.Ascending {
		orderBy = "fs.length"
	}
	orderBy += ", fs.project_id, fs.source_id, fs.symbol_id, fs.start_query_pos, fs.start_match_pos"

	limit := page.Size
	offset := page.Num * page.Size
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		WITH potential_matches AS (
			SELECT b.symbol_id AS symbol_id, a.pos AS query_pos, b.pos AS match_pos, (a.pos - b.pos) AS pos_diff
			FROM windows a JOIN windows b ON a.hash = b.hash
			WHERE a.pos >= $1 AND a.pos <= $2 AND a.symbol_id = $3 AND b.symbol_id != $3
		),
		sequence_groups AS (
			SELECT symbol_id, query_pos, match_pos, pos_diff,
				query_pos - ROW_NUMBER() OVER (PARTITION BY symbol_id, pos_diff ORDER BY query_pos) AS sequence_id
			FROM potential_matches
		),
		final_sequences AS (
			SELECT symbol_id, MIN(query_pos) AS start_query_pos, MIN(match_pos) AS start_match_pos, COUNT(*) AS run_len
			FROM sequence_groups
			GROUP BY symbol_id, pos_diff, sequence_id
			HAVING COUNT(*) >= $4
		),
		fs AS (
			SELECT
				src.project_id AS project_id, p.name AS project_name,
				sym.source_id AS source_id, src.name AS source_name,
				fs0.symbol_id AS symbol_id, sym.name AS symbol_name, sym.is_decompiled AS is_decompiled,
				sym.slug AS symbol_slug, sym.len AS symbol_len, sym.symbol_idx AS object_symbol_idx,
				v.id AS version_id, v.name AS version_name, v.platform AS platform,
				p.repo AS project_repo,
				fs0.start_query_pos AS start_query_pos, fs0.start_match_pos AS start_match_pos,
				fs0.run_len + $5 - 1 AS length,
				COUNT(*) OVER() AS total_count
			FROM final_sequences fs0
			JOIN symbols sym ON fs0.symbol_id = sym.id
			JOIN sources src ON sym.source_id = src.id
			JOIN projects p ON src.project_id = p.id
			LEFT JOIN versions v ON src.version_id = v.id
		)
		SELECT
			project_id, project_name,
			source_id, source_name,
			symbol_name, is_decompiled,
			symbol_slug, symbol_len,
			version_id, version_name, platform, project_repo,
			start_query_pos, start_match_pos, length, total_count
		FROM fs
		ORDER BY %s
		LIMIT $6 OFFSET $7`, orderBy)

	// s.db is opened in sqlx's default safe mode (store.go never calls
	// .Unsafe()), so every returned column must have a matching db tag
	// here — the SELECT above is deliberately explicit rather than `SELECT
	// *` for that reason.
	type submatchJoinRow struct {
		ProjectID     int64   `db:"project_id"`
		ProjectName   string  `db:"project_name"`
		SourceID      int64   `db:"source_id"`
		SourceName    string  `db:"source_name"`
		SymbolName    string  `db:"symbol_name"`
		IsDecompiled  bool    `db:"is_decompiled"`
		SymbolSlug    string  `db:"symbol_slug"`
		SymbolLen     int     `db:"symbol_len"`
		VersionID     *int64  `db:"version_id"`
		VersionName   *string `db:"version_name"`
		Platform      *int16  `db:"platform"`
		ProjectRepo   *string `db:"project_repo"`
		StartQueryPos int     `db:"start_query_pos"`
		StartMatchPos int     `db:"start_match_pos"`
		Length        int     `db:"length"`
		TotalCount    int     `db:"total_count"`
	}

	rows := []submatchJoinRow{}
	if err := s.db.SelectContext(ctx, &rows, query, start, lastQueryPos, queryID, minLen-windowWidth+1, windowWidth, limit, offset); err != nil {
		return SubmatchResult{}, mapQueryErr(ctx, err, "find submatches")
	}

	result := SubmatchResult{}
	for i, r := range rows {
		if i == 0 {
			result.Total = r.TotalCount
		}
		result.Rows = append(result.Rows, SubmatchRow{
			Symbol: SymbolMeta{
				Slug: r.SymbolSlug, Name: r.SymbolName, Len: r.SymbolLen, IsDecompiled: r.IsDecompiled,
				SourceID: r.SourceID, SourceName: r.SourceName,
				VersionID: r.VersionID, VersionName: r.VersionName,
				ProjectID: r.ProjectID, ProjectName: r.ProjectName, ProjectRepo: r.ProjectRepo,
				Platform: r.Platform,
			},
			QueryStart: r.StartQueryPos,
			MatchStart: r.StartMatchPos,
			Len:        r.Length,
		})
	}
	return result, nil
}
