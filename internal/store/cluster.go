// File path: internal/store/cluster.go
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/coddog/coddog/internal/coderr"
)

type clusterRow struct {
	SymbolMeta
	ExactHash int64 `db:"exact_hash"`
}

const clusterRowSelect = `
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
		v.platform AS platform,
		sym.exact_hash AS exact_hash
	FROM symbols sym
	JOIN sources src ON src.id = sym.source_id
	JOIN projects p ON p.id = src.project_id
	LEFT JOIN versions v ON v.id = src.version_id
`

// ClusterSource implements §4.6: group a Source's Symbols by exact
// fingerprint, keeping only clusters with cardinality >= minSize. O(n)
// over the Source's symbols; does not touch the window index.
func (s *Store) ClusterSource(ctx context.Context, sourceSlug string, minSize int) ([]Cluster, error) {
	if s == nil || s.db == nil {
		return nil, coderr.ErrBackingStoreMissing
	}
	rows := []clusterRow{}
	query := clusterRowSelect + ` WHERE src.slug = $1 ORDER BY sym.exact_hash, sym.symbol_idx`
	if err := s.db.SelectContext(ctx, &rows, query, sourceSlug); err != nil {
		return nil, fmt.Errorf("%w: cluster source %s: %v", coderr.ErrBackingStoreUnavailable, sourceSlug, err)
	}
	return clusterByExactHash(rows, minSize), nil
}

// ClusterProject implements the cross-Source clustering extension noted in
// §9: clustering scope can widen to an entire Project when crossSource is
// true, at the cost of possibly inflating cardinality with version
// duplicates of the same function.
func (s *Store) ClusterProject(ctx context.Context, projectID int64, minSize int, crossSource bool) ([]Cluster, error) {
	if s == nil || s.db == nil {
		return nil, coderr.ErrBackingStoreMissing
	}
	if !crossSource {
		return nil, fmt.Errorf("%w: ClusterProject requires crossSource=true; use ClusterSource for single-Source scope", coderr.ErrInvalidArgument)
	}
	rows := []clusterRow{}
	query := clusterRowSelect + ` WHERE src.project_id = $1 ORDER BY sym.exact_hash, src.id, sym.symbol_idx`
	if err := s.db.SelectContext(ctx, &rows, query, projectID); err != nil {
		return nil, fmt.Errorf("%w: cluster project %d: %v", coderr.ErrBackingStoreUnavailable, projectID, err)
	}
	return clusterByExactHash(rows, minSize), nil
}

// clusterByExactHash groups pre-sorted-by-exact-hash rows into adjacency
// runs and keeps only those with at least minSize members.
func clusterByExactHash(rows []clusterRow, minSize int) []Cluster {
	if minSize < 1 {
		minSize = 1
	}
	var clusters []Cluster
	var current []SymbolMeta
	var currentHash int64
	haveCurrent := false

	flush := func() {
		if haveCurrent && len(current) >= minSize {
			clusters = append(clusters, Cluster{
				ExactHash: uint64(currentHash),
				Symbols:   append([]SymbolMeta(nil), current...),
			})
		}
		current = nil
		haveCurrent = false
	}

	for _, row := range rows {
		if !haveCurrent || row.ExactHash != currentHash {
			flush()
			currentHash = row.ExactHash
			haveCurrent = true
		}
		current = append(current, row.SymbolMeta)
	}
	flush()

	sort.SliceStable(clusters, func(i, j int) bool { return len(clusters[i].Symbols) > len(clusters[j].Symbols) })
	return clusters
}
