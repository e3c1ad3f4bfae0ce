// File path: internal/store/symbols.go
package store

import (
	"context"
	"fmt"

	"github.com/coddog/coddog/internal/coderr"
)

const symbolMetaSelect = `
	SELECT
		sym.slug AS slug,
		sym.name AS name,
		sym.len AS len,
		sym.is_decompiled AS is_decompiled,
		src.id AS source_id,
		src.name AS source_name,
		src.version_id AS version_id,
		v.name AS version_name,
		src.project_id AS project_id,
		p.name AS project_name,
		p.repo AS project_repo,
		v.platform AS platform
	FROM symbols sym
	JOIN sources src ON src.id = sym.source_id
	JOIN projects p ON p.id = src.project_id
	LEFT JOIN versions v ON v.id = src.version_id
`

// GetSymbol implements get_symbol (§4.3): metadata plus platform/project/
// source/version context, resolved by slug.
func (s *Store) GetSymbol(ctx context.Context, slug string) (SymbolMeta, error) {
	if s == nil || s.db == nil {
		return SymbolMeta{}, coderr.ErrBackingStoreMissing
	}
	var meta SymbolMeta
	err := s.db.GetContext(ctx, &meta, symbolMetaSelect+` WHERE sym.slug = $1`, slug)
	if err != nil {
		return SymbolMeta{}, mapNotFound(err, "symbol")
	}
	return meta, nil
}

// symbolInternal resolves the internal id and owning Object path for a
// slug, the lookup get_symbol_instructions needs before it can ask the
// disassembler adapter to rehydrate the instruction stream.
type symbolInternal struct {
	ID         int64  `db:"id"`
	SymbolIdx  int    `db:"symbol_idx"`
	ObjectPath string `db:"local_path"`
}

// ResolveSymbolObject looks up the Object local path and ordinal a Symbol
// needs for instruction rehydration. BackingStoreMissing is returned by
// the caller (the disassembler adapter) if the blob itself is absent from
// disk; this lookup only fails with NotFound if the slug is unknown.
func (s *Store) ResolveSymbolObject(ctx context.Context, slug string) (objectPath string, symbolIdx int, err error) {
	if s == nil || s.db == nil {
		return "", 0, coderr.ErrBackingStoreMissing
	}
	var row symbolInternal
	dbErr := s.db.GetContext(ctx, &row, `
		SELECT sym.id AS id, sym.symbol_idx AS symbol_idx, o.local_path AS local_path
		FROM symbols sym
		JOIN sources src ON src.id = sym.source_id
		JOIN objects o ON o.id = src.object_id
		WHERE sym.slug = $1`, slug)
	if dbErr != nil {
		return "", 0, mapNotFound(dbErr, "symbol")
	}
	return row.ObjectPath, row.SymbolIdx, nil
}

// symbolID resolves a slug to its internal numeric id, the key every
// fingerprint-based and window-based query below is keyed on.
func (s *Store) symbolID(ctx context.Context, slug string) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT id FROM symbols WHERE slug = $1`, slug)
	if err != nil {
		return 0, mapNotFound(err, "symbol")
	}
	return id, nil
}

// ListSymbolNames supports the search index warmer (internal/search):
// every (slug, name) pair currently persisted.
func (s *Store) ListSymbolNames(ctx context.Context) ([]SymbolLite, error) {
	if s == nil || s.db == nil {
		return nil, coderr.ErrBackingStoreMissing
	}
	out := []SymbolLite{}
	if err := s.db.SelectContext(ctx, &out, `SELECT slug, name FROM symbols ORDER BY id`); err != nil {
		return nil, fmt.Errorf("%w: list symbol names: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	return out, nil
}
