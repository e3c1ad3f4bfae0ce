// File path: internal/store/schema.go
package store

// schemaStatements mirrors the teacher's fixed ordered-DDL-in-one-transaction
// migration strategy (internal/sqlite/store.go in the source project),
// translated from SQLite to PostgreSQL and extended with the symbol/window
// content-index tables this domain needs.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		repo TEXT
	);`,
	`CREATE TABLE IF NOT EXISTS versions (
		id BIGSERIAL PRIMARY KEY,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		platform SMALLINT NOT NULL,
		UNIQUE(project_id, name)
	);`,
	`CREATE TABLE IF NOT EXISTS objects (
		id BIGSERIAL PRIMARY KEY,
		hash TEXT NOT NULL UNIQUE,
		local_path TEXT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS sources (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		project_id BIGINT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		object_id BIGINT NOT NULL REFERENCES objects(id),
		version_id BIGINT REFERENCES versions(id) ON DELETE SET NULL,
		upstream_url TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE(project_id, object_id, name)
	);`,
	`CREATE TABLE IF NOT EXISTS symbols (
		id BIGSERIAL PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		source_id BIGINT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
		len INTEGER NOT NULL CHECK (len >= 0),
		symbol_idx INTEGER NOT NULL,
		is_decompiled BOOLEAN NOT NULL DEFAULT false,
		opcode_hash BIGINT NOT NULL,
		equiv_hash BIGINT NOT NULL,
		exact_hash BIGINT NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS windows (
		id BIGSERIAL PRIMARY KEY,
		symbol_id BIGINT NOT NULL REFERENCES symbols(id) ON DELETE CASCADE,
		pos INTEGER NOT NULL,
		hash BIGINT NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_source ON symbols(source_id);`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_opcode_hash ON symbols(opcode_hash);`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_equiv_hash ON symbols(equiv_hash);`,
	`CREATE INDEX IF NOT EXISTS idx_symbols_exact_hash ON symbols(exact_hash);`,
	`CREATE INDEX IF NOT EXISTS idx_windows_hash ON windows(hash);`,
	`CREATE INDEX IF NOT EXISTS idx_windows_symbol_id ON windows(symbol_id);`,
	`CREATE INDEX IF NOT EXISTS idx_windows_hash_symbol_id ON windows(hash, symbol_id);`,
	`CREATE INDEX IF NOT EXISTS idx_sources_project ON sources(project_id);`,
	`CREATE INDEX IF NOT EXISTS idx_versions_project ON versions(project_id);`,
}
