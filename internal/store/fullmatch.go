// File path: internal/store/fullmatch.go
package store

import (
	"context"
	"fmt"

	"github.com/coddog/coddog/internal/coderr"
)

// FullMatches is the { exact, equivalent, opcode } bucket shape returned
// by find_full_matches (§4.3). The three buckets are computed
// independently and never deduplicated against each other — see the
// "full-match bucket disjointness" design note.
type FullMatches struct {
	Exact      []SymbolMeta
	Equivalent []SymbolMeta
	Opcode     []SymbolMeta
}

// FindFullMatches implements find_full_matches: three independent point
// lookups on the indexed fingerprint columns, excluding the query symbol,
// each ordered by project_id, source_id, symbol_idx per §4.5.
func (s *Store) FindFullMatches(ctx context.Context, slug string) (FullMatches, error) {
	if s == nil || s.db == nil {
		return FullMatches{}, coderr.ErrBackingStoreMissing
	}
	id, err := s.symbolID(ctx, slug)
	if err != nil {
		return FullMatches{}, err
	}

	// Hash columns are stored as signed BIGINT (symbols.go bulk insert writes
	// int64(hash)); a fingerprint with the high bit set becomes a negative
	// int64, which database/sql refuses to scan directly into a uint64
	// field. Scan into int64 and convert, the same pattern clusterRow uses.
	var self struct {
		OpcodeHash int64 `db:"opcode_hash"`
		EquivHash  int64 `db:"equiv_hash"`
		ExactHash  int64 `db:"exact_hash"`
	}
	if err := s.db.GetContext(ctx, &self, `SELECT opcode_hash, equiv_hash, exact_hash FROM symbols WHERE id = $1`, id); err != nil {
		return FullMatches{}, mapNotFound(err, "symbol")
	}

	exact, err := s.matchByColumn(ctx, "exact_hash", uint64(self.ExactHash), id)
	if err != nil {
		return FullMatches{}, err
	}
	equivalent, err := s.matchByColumn(ctx, "equiv_hash", uint64(self.EquivHash), id)
	if err != nil {
		return FullMatches{}, err
	}
	opcode, err := s.matchByColumn(ctx, "opcode_hash", uint64(self.OpcodeHash), id)
	if err != nil {
		return FullMatches{}, err
	}
	return FullMatches{Exact: exact, Equivalent: equivalent, Opcode: opcode}, nil
}

func (s *Store) matchByColumn(ctx context.Context, column string, value uint64, excludeID int64) ([]SymbolMeta, error) {
	query := fmt.Sprintf(`%s WHERE sym.%s = $1 AND sym.id != $2 ORDER BY src.project_id, sym.source_id, sym.symbol_idx`, symbolMetaSelect, column)
	rows := []SymbolMeta{}
	if err := s.db.SelectContext(ctx, &rows, query, int64(value), excludeID); err != nil {
		return nil, fmt.Errorf("%w: match by %s: %v", coderr.ErrBackingStoreUnavailable, column, err)
	}
	return rows, nil
}
