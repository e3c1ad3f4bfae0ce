// File path: internal/search/search.go
// Package search implements find_by_name_prefix (§4.3) with a real
// full-text index rather than a single SQL operator: a
// github.com/blevesearch/bleve/v2 in-memory index over Symbol names,
// warmed from the store at startup and re-warmed from the store's full
// symbol listing after each ingested Source. Grounded in the example pack's sha1n/mcp-relic-server,
// the only repo in the corpus that ships a bleve-backed search surface.
package search

import (
	"fmt"
	"sync"

	"github.com/blevesearch/bleve/v2"

	"github.com/coddog/coddog/internal/store"
)

// nameDoc is the document shape indexed for each Symbol.
type nameDoc struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// Index wraps a bleve in-memory index of Symbol names.
type Index struct {
	mu  sync.RWMutex
	idx bleve.Index
}

// New builds an empty Index using bleve's default (standard) analyzer — the
// same mapping style sha1n/mcp-relic-server uses for its relic catalog.
func New() (*Index, error) {
	mapping := bleve.NewIndexMapping()
	idx, err := bleve.NewMemOnly(mapping)
	if err != nil {
		return nil, fmt.Errorf("search: build index: %w", err)
	}
	return &Index{idx: idx}, nil
}

// Warm indexes (or re-indexes) every given Symbol. The serve command calls
// it once at startup with the store's full listing, and ingest.Run calls it
// again with the full listing after each Source is inserted.
func (i *Index) Warm(names []store.SymbolLite) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	batch := i.idx.NewBatch()
	for _, n := range names {
		if err := batch.Index(n.Slug, nameDoc{Slug: n.Slug, Name: n.Name}); err != nil {
			return fmt.Errorf("search: batch index %s: %w", n.Slug, err)
		}
	}
	return i.idx.Batch(batch)
}

// Add indexes the given Symbols; it performs the same operation as Warm,
// for a caller that holds only newly created Symbols.
func (i *Index) Add(names []store.SymbolLite) error {
	return i.Warm(names)
}

// FindByNamePrefix implements find_by_name_prefix: best-effort substring/
// prefix search for the search UI, backed by a bleve match query over the
// Name field (which tokenizes and lowercases names) combined with a prefix
// query on the indexed terms, rather than an anchored LIKE.
func (i *Index) FindByNamePrefix(fragment string, limit int) ([]store.SymbolLite, error) {
	if limit <= 0 {
		limit = 50
	}
	i.mu.RLock()
	defer i.mu.RUnlock()

	prefixQuery := bleve.NewPrefixQuery(fragment)
	prefixQuery.SetField("name")
	matchQuery := bleve.NewMatchQuery(fragment)
	matchQuery.SetField("name")
	query := bleve.NewDisjunctionQuery(prefixQuery, matchQuery)

	req := bleve.NewSearchRequestOptions(query, limit, 0, false)
	req.Fields = []string{"slug", "name"}
	result, err := i.idx.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search: query %q: %w", fragment, err)
	}

	out := make([]store.SymbolLite, 0, len(result.Hits))
	for _, hit := range result.Hits {
		slug, _ := hit.Fields["slug"].(string)
		name, _ := hit.Fields["name"].(string)
		out = append(out, store.SymbolLite{Slug: slug, Name: name})
	}
	return out, nil
}
