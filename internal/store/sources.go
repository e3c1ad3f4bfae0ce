// File path: internal/store/sources.go
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"github.com/coddog/coddog/internal/coderr"
	"github.com/coddog/coddog/internal/hashfp"
	"github.com/coddog/coddog/internal/slug"
	"github.com/coddog/coddog/internal/window"
)

// InsertSource implements insert_source (§4.3): atomically creates the
// Source (and its Project/Version/Object if new), then every Symbol and
// the full Window set for each, in one transaction — per §5's ordering
// guarantee that readers never observe a Symbol without its Windows.
func (s *Store) InsertSource(ctx context.Context, meta SourceMetaInput, symbols []SymbolWithStream, seed hashfp.Seed, windowWidth int) (Source, error) {
	if s == nil || s.db == nil {
		return Source{}, coderr.ErrBackingStoreMissing
	}
	var created Source
	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		projectID, err := ensureProject(ctx, tx, meta.ProjectName, meta.ProjectRepo)
		if err != nil {
			return err
		}
		var versionID *int64
		if meta.VersionName != nil {
			id, err := ensureVersion(ctx, tx, projectID, *meta.VersionName, meta.VersionPlatform)
			if err != nil {
				return err
			}
			versionID = &id
		}
		objectID, err := ensureObject(ctx, tx, meta.ObjectHash, meta.ObjectLocalPath)
		if err != nil {
			return err
		}

		sourceSlug, err := newUniqueSlug(ctx, tx, "sources")
		if err != nil {
			return err
		}

		row := struct {
			ID int64 `db:"id"`
		}{}
		err = tx.GetContext(ctx, &row, `
			INSERT INTO sources (slug, name, project_id, object_id, version_id, upstream_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			sourceSlug, meta.SourceName, projectID, objectID, versionID, meta.UpstreamURL)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return fmt.Errorf("source %q under object %d: %w", meta.SourceName, objectID, coderr.ErrConflict)
			}
			return fmt.Errorf("%w: insert source: %v", coderr.ErrBackingStoreUnavailable, err)
		}
		sourceID := row.ID

		symbolIDs, err := bulkInsertSymbols(ctx, tx, sourceID, symbols)
		if err != nil {
			return err
		}
		if err := bulkInsertWindows(ctx, tx, symbolIDs, symbols, seed, windowWidth); err != nil {
			return err
		}

		created = Source{ID: sourceID, Slug: sourceSlug, Name: meta.SourceName, ProjectID: projectID, ObjectID: objectID, VersionID: versionID, UpstreamURL: meta.UpstreamURL}
		return nil
	})
	if err != nil {
		return Source{}, err
	}
	return created, nil
}

func ensureProject(ctx context.Context, tx *sqlx.Tx, name string, repo *string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `SELECT id FROM projects WHERE name = $1`, name)
	if err == nil {
		return id, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("%w: lookup project: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	err = tx.GetContext(ctx, &id, `INSERT INTO projects (name, repo) VALUES ($1, $2) RETURNING id`, name, repo)
	if err != nil {
		return 0, fmt.Errorf("%w: create project: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	return id, nil
}

func ensureVersion(ctx context.Context, tx *sqlx.Tx, projectID int64, name string, platform int16) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `SELECT id FROM versions WHERE project_id = $1 AND name = $2`, projectID, name)
	if err == nil {
		return id, nil
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("%w: lookup version: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	err = tx.GetContext(ctx, &id, `INSERT INTO versions (project_id, name, platform) VALUES ($1, $2, $3) RETURNING id`, projectID, name, platform)
	if err != nil {
		return 0, fmt.Errorf("%w: create version: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	return id, nil
}

// ensureObject dedups on content hash, mirroring the original tool's
// `ON CONFLICT (hash) DO NOTHING` insert-then-select pattern so re-ingesting
// the same binary blob never creates a second Object row.
func ensureObject(ctx context.Context, tx *sqlx.Tx, hash, localPath string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, `
		INSERT INTO objects (hash, local_path) VALUES ($1, $2)
		ON CONFLICT (hash) DO UPDATE SET hash = EXCLUDED.hash
		RETURNING id`, hash, localPath)
	if err != nil {
		return 0, fmt.Errorf("%w: ensure object: %v", coderr.ErrBackingStoreUnavailable, err)
	}
	return id, nil
}

func newUniqueSlug(ctx context.Context, tx *sqlx.Tx, table string) (string, error) {
	gen := slug.Generator{
		Exists: func(candidate string) (bool, error) {
			var exists bool
			query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE slug = $1)`, table)
			if err := tx.GetContext(ctx, &exists, query, candidate); err != nil {
				return false, fmt.Errorf("%w: check slug: %v", coderr.ErrBackingStoreUnavailable, err)
			}
			return exists, nil
		},
	}
	result, err := gen.Next()
	if err != nil {
		return "", fmt.Errorf("%w: %v", coderr.ErrIntegrity, err)
	}
	return result, nil
}

func bulkInsertSymbols(ctx context.Context, tx *sqlx.Tx, sourceID int64, symbols []SymbolWithStream) ([]int64, error) {
	if len(symbols) == 0 {
		return nil, nil
	}
	slugs := make([]string, len(symbols))
	names := make([]string, len(symbols))
	lens := make([]int32, len(symbols))
	idxs := make([]int32, len(symbols))
	decompiled := make([]bool, len(symbols))
	opcode := make([]int64, len(symbols))
	equiv := make([]int64, len(symbols))
	exact := make([]int64, len(symbols))

	for i, sym := range symbols {
		generated, err := newUniqueSlug(ctx, tx, "symbols")
		if err != nil {
			return nil, err
		}
		slugs[i] = generated
		names[i] = sym.Name
		lens[i] = int32(len(sym.EquivalenceHashes))
		idxs[i] = int32(sym.SymbolIdx)
		decompiled[i] = sym.IsDecompiled
		opcode[i] = int64(sym.Fingerprints.Opcode)
		equiv[i] = int64(sym.Fingerprints.Equiv)
		exact[i] = int64(sym.Fingerprints.Exact)
	}

	rows, err := tx.QueryContext(ctx, `
		INSERT INTO symbols (slug, name, source_id, len, symbol_idx, is_decompiled, opcode_hash, equiv_hash, exact_hash)
		SELECT u.slug, u.name, $1, u.len, u.symbol_idx, u.is_decompiled, u.opcode_hash, u.equiv_hash, u.exact_hash
		FROM UNNEST($2::text[], $3::text[], $4::int[], $5::int[], $6::bool[], $7::bigint[], $8::bigint[], $9::bigint[])
			AS u(slug, name, len, symbol_idx, is_decompiled, opcode_hash, equiv_hash, exact_hash)
		RETURNING id`,
		sourceID, slugs, names, lens, idxs, decompiled, opcode, equiv, exact)
	if err != nil {
		return nil, fmt.Errorf("%w: bulk insert symbols: %v", coderr.ErrIntegrity, err)
	}
	defer rows.Close()

	ids := make([]int64, 0, len(symbols))
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%w: scan symbol id: %v", coderr.ErrBackingStoreUnavailable, err)
		}
		ids = append(ids, id)
	}
	if len(ids) != len(symbols) {
		return nil, fmt.Errorf("%w: expected %d symbol rows, got %d", coderr.ErrIntegrity, len(symbols), len(ids))
	}
	return ids, rows.Err()
}

// bulkInsertWindows chunks the full Window set across all of a Source's
// Symbols into UNNEST batches, following the original tool's
// CHUNK_SIZE-bounded bulk insert to keep any one statement's parameter
// array from growing unbounded on a large object.
func bulkInsertWindows(ctx context.Context, tx *sqlx.Tx, symbolIDs []int64, symbols []SymbolWithStream, seed hashfp.Seed, windowWidth int) error {
	const chunkSize = 50_000

	var symbolCol []int64
	var posCol []int32
	var hashCol []int64

	flush := func() error {
		if len(symbolCol) == 0 {
			return nil
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO windows (symbol_id, pos, hash)
			SELECT * FROM UNNEST($1::bigint[], $2::int[], $3::bigint[])`,
			symbolCol, posCol, hashCol)
		if err != nil {
			return fmt.Errorf("%w: bulk insert windows: %v", coderr.ErrIntegrity, err)
		}
		symbolCol, posCol, hashCol = symbolCol[:0], posCol[:0], hashCol[:0]
		return nil
	}

	for i, sym := range symbols {
		for _, w := range window.Extract(seed, sym.EquivalenceHashes, windowWidth) {
			symbolCol = append(symbolCol, symbolIDs[i])
			posCol = append(posCol, int32(w.Pos))
			hashCol = append(hashCol, int64(w.Hash))
			if len(symbolCol) >= chunkSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return flush()
}

// GetSource resolves a Source by slug into its join-resolved metadata.
func (s *Store) GetSource(ctx context.Context, slug string) (SourceMeta, error) {
	if s == nil || s.db == nil {
		return SourceMeta{}, coderr.ErrBackingStoreMissing
	}
	var meta SourceMeta
	err := s.db.GetContext(ctx, &meta, `
		SELECT
			src.slug AS slug,
			src.name AS name,
			src.project_id AS project_id,
			p.name AS project_name,
			src.version_id AS version_id,
			v.name AS version_name,
			o.hash AS object_hash,
			COALESCE((SELECT COUNT(*) FROM symbols WHERE source_id = src.id), 0) AS symbol_count
		FROM sources src
		JOIN projects p ON p.id = src.project_id
		JOIN objects o ON o.id = src.object_id
		LEFT JOIN versions v ON v.id = src.version_id
		WHERE src.slug = $1`, slug)
	if err != nil {
		return SourceMeta{}, mapNotFound(err, "source")
	}
	return meta, nil
}
