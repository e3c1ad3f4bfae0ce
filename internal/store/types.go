// File path: internal/store/types.go
package store

import "time"

// Project is a top-level grouping of Versions and Sources.
type Project struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Repo *string `db:"repo"`
}

// Version is one platform-tagged release within a Project.
type Version struct {
	ID        int64  `db:"id"`
	ProjectID int64  `db:"project_id"`
	Name      string `db:"name"`
	Platform  int16  `db:"platform"`
}

// Object is one deduplicated binary blob, addressed by content hash.
type Object struct {
	ID        int64  `db:"id"`
	Hash      string `db:"hash"`
	LocalPath string `db:"local_path"`
}

// Source is one ingested disassembly of an Object within a Project,
// optionally tied to a Version.
type Source struct {
	ID          int64   `db:"id"`
	Slug        string  `db:"slug"`
	Name        string  `db:"name"`
	ProjectID   int64   `db:"project_id"`
	ObjectID    int64   `db:"object_id"`
	VersionID   *int64  `db:"version_id"`
	UpstreamURL *string `db:"upstream_url"`
	CreatedAt   time.Time `db:"created_at"`
}

// Symbol is one compiled function extracted from a Source.
type Symbol struct {
	ID           int64  `db:"id"`
	Slug         string `db:"slug"`
	Name         string `db:"name"`
	SourceID     int64  `db:"source_id"`
	Len          int    `db:"len"`
	SymbolIdx    int    `db:"symbol_idx"`
	IsDecompiled bool   `db:"is_decompiled"`
	OpcodeHash   uint64 `db:"opcode_hash"`
	EquivHash    uint64 `db:"equiv_hash"`
	ExactHash    uint64 `db:"exact_hash"`
}

// Window is one (position, hash) pair owned by a Symbol.
type Window struct {
	ID       int64  `db:"id"`
	SymbolID int64  `db:"symbol_id"`
	Pos      int    `db:"pos"`
	Hash     uint64 `db:"hash"`
}

// SymbolMeta is the denormalized, join-resolved view of a Symbol returned
// to API consumers (§6 SymbolMeta contract).
type SymbolMeta struct {
	Slug         string `db:"slug"`
	Name         string `db:"name"`
	Len          int    `db:"len"`
	IsDecompiled bool   `db:"is_decompiled"`
	SourceID     int64  `db:"source_id"`
	SourceName   string `db:"source_name"`
	VersionID    *int64  `db:"version_id"`
	VersionName  *string `db:"version_name"`
	ProjectID    int64  `db:"project_id"`
	ProjectName  string `db:"project_name"`
	ProjectRepo  *string `db:"project_repo"`
	Platform     *int16  `db:"platform"`
}

// SourceMeta is the join-resolved view of a Source.
type SourceMeta struct {
	Slug        string  `db:"slug"`
	Name        string  `db:"name"`
	ProjectID   int64   `db:"project_id"`
	ProjectName string  `db:"project_name"`
	VersionID   *int64  `db:"version_id"`
	VersionName *string `db:"version_name"`
	ObjectHash  string  `db:"object_hash"`
	SymbolCount int     `db:"symbol_count"`
}

// FullMatchRow is one row of one bucket returned by find_full_matches.
type FullMatchRow struct {
	Subtype string // "exact" | "equivalent" | "opcode"
	Symbol  SymbolMeta
}

// SubmatchRow is one row of find_submatches, joined to full symbol metadata.
type SubmatchRow struct {
	Symbol     SymbolMeta
	QueryStart int
	MatchStart int
	Len        int
}

// SubmatchResult is the { total, rows } shape returned by find_submatches.
type SubmatchResult struct {
	Total int
	Rows  []SubmatchRow
}

// Cluster is one group of Symbols sharing an exact fingerprint.
type Cluster struct {
	ExactHash uint64
	Symbols   []SymbolMeta
}

// SymbolLite is the shape returned by find_by_name_prefix.
type SymbolLite struct {
	Slug string
	Name string
}

// SymbolWithStream pairs a Symbol-to-be-created with the instruction
// stream it was fingerprinted from, the insert_source input unit.
type SymbolWithStream struct {
	Name         string
	IsDecompiled bool
	SymbolIdx    int
	Fingerprints struct {
		Opcode, Equiv, Exact uint64
	}
	EquivalenceHashes []uint64 // per-instruction, input to the window extractor
}

// SourceMetaInput is the metadata insert_source needs to create a Source
// (and its Object, if new).
type SourceMetaInput struct {
	ProjectName    string
	ProjectRepo    *string
	VersionName    *string
	VersionPlatform int16
	SourceName     string
	UpstreamURL    *string
	ObjectHash     string
	ObjectLocalPath string
}
