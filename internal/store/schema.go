package store

// Schema is the current database schema, extracted from the migration
// files. Tests apply it directly instead of running migrations.
//
// Auto-generated by internal/store/tools/generate_schema.go.
// DO NOT EDIT MANUALLY. Run 'go generate ./internal/store' to regenerate.
const Schema = `CREATE TABLE nodes (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    type TEXT NOT NULL CHECK (type IN ('folder', 'file')),
    name TEXT NOT NULL,
    parent_id TEXT,
    path TEXT NOT NULL,
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    is_latest BOOLEAN NOT NULL DEFAULT FALSE,
    blob_ref TEXT,
    blob_url TEXT,
    size INTEGER,
    content_type TEXT,
    version_tag TEXT,
    uploaded_at TIMESTAMP,
    checksum TEXT,
    original_name TEXT
);

CREATE TABLE versions (
    id TEXT PRIMARY KEY,
    project_id TEXT NOT NULL,
    label TEXT NOT NULL,
    notes TEXT NOT NULL DEFAULT '',
    created_by TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    bundle_ref TEXT NOT NULL,
    bundle_url TEXT NOT NULL,
    bundle_size INTEGER NOT NULL,
    bundle_checksum TEXT NOT NULL
);

CREATE INDEX idx_nodes_project_parent ON nodes (project_id, parent_id);

CREATE INDEX idx_nodes_project_path ON nodes (project_id, path);

CREATE INDEX idx_versions_project_created ON versions (project_id, created_at);
`
