package store

import (
	"database/sql"
	"fmt"

	"fv-go/internal/fv"
	"fv-go/internal/model"
	"fv-go/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements the fv.Store interface using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore creates a new SQLite metadata store.
// path can be a file path or ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// NewSQLiteStoreFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, path: ""}
}

// OpenConnection opens and configures a SQLite database connection with
// appropriate PRAGMAs. Exported for use in tools and tests that need a
// properly configured connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// nodeColumns is the column list every node query selects, in scanNode order.
const nodeColumns = `id, project_id, type, name, parent_id, path, created_by,
	created_at, updated_at, is_latest, blob_ref, blob_url, size, content_type,
	version_tag, uploaded_at, checksum, original_name`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanNode reads one node row. File metadata columns are NULL for folders.
func scanNode(sc scanner) (*model.Node, error) {
	var n model.Node
	var parentID sql.NullString
	var blobRef, blobURL, contentType, versionTag, checksum, originalName sql.NullString
	var size sql.NullInt64
	var uploadedAt sql.NullTime

	err := sc.Scan(
		&n.ID, &n.ProjectID, &n.Type, &n.Name, &parentID, &n.Path, &n.CreatedBy,
		&n.CreatedAt, &n.UpdatedAt, &n.IsLatest, &blobRef, &blobURL, &size,
		&contentType, &versionTag, &uploadedAt, &checksum, &originalName,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		p := parentID.String
		n.ParentID = &p
	}
	if n.Type == model.TypeFile {
		n.FileMeta = &model.FileMeta{
			BlobRef:      blobRef.String,
			URL:          blobURL.String,
			Size:         size.Int64,
			ContentType:  contentType.String,
			VersionTag:   versionTag.String,
			UploadedAt:   uploadedAt.Time,
			Checksum:     checksum.String,
			OriginalName: originalName.String,
		}
	}
	return &n, nil
}

// findNode runs a single-node query, mapping sql.ErrNoRows to (nil, nil).
func (s *SQLiteStore) findNode(query string, args ...any) (*model.Node, error) {
	node, err := scanNode(s.db.QueryRow(query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Not found
		}
		return nil, err
	}
	return node, nil
}

// listNodes runs a multi-node query.
func (s *SQLiteStore) listNodes(query string, args ...any) ([]*model.Node, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []*model.Node
	for rows.Next() {
		node, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, rows.Err()
}

// Node operations

func (s *SQLiteStore) FindRootFolder(projectID string) (*model.Node, error) {
	node, err := s.findNode(
		`SELECT `+nodeColumns+` FROM nodes
		 WHERE project_id = ? AND parent_id IS NULL AND type = 'folder'`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("finding root folder: %w", err)
	}
	return node, nil
}

func (s *SQLiteStore) FindFolderChild(projectID, parentID, name string) (*model.Node, error) {
	node, err := s.findNode(
		`SELECT `+nodeColumns+` FROM nodes
		 WHERE project_id = ? AND parent_id = ? AND type = 'folder' AND name = ?`,
		projectID, parentID, name)
	if err != nil {
		return nil, fmt.Errorf("finding folder child: %w", err)
	}
	return node, nil
}

func (s *SQLiteStore) FindNodeByID(id string) (*model.Node, error) {
	node, err := s.findNode(`SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("finding node by id: %w", err)
	}
	return node, nil
}

func (s *SQLiteStore) InsertNode(node *model.Node) error {
	var parentID sql.NullString
	if node.ParentID != nil {
		parentID = sql.NullString{String: *node.ParentID, Valid: true}
	}

	var blobRef, blobURL, contentType, versionTag, checksum, originalName sql.NullString
	var size sql.NullInt64
	var uploadedAt sql.NullTime
	if m := node.FileMeta; m != nil {
		blobRef = sql.NullString{String: m.BlobRef, Valid: true}
		blobURL = sql.NullString{String: m.URL, Valid: true}
		size = sql.NullInt64{Int64: m.Size, Valid: true}
		contentType = sql.NullString{String: m.ContentType, Valid: true}
		versionTag = sql.NullString{String: m.VersionTag, Valid: true}
		uploadedAt = sql.NullTime{Time: m.UploadedAt, Valid: true}
		checksum = sql.NullString{String: m.Checksum, Valid: true}
		originalName = sql.NullString{String: m.OriginalName, Valid: true}
	}

	_, err := s.db.Exec(
		`INSERT INTO nodes (`+nodeColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		node.ID, node.ProjectID, node.Type, node.Name, parentID, node.Path,
		node.CreatedBy, node.CreatedAt, node.UpdatedAt, node.IsLatest,
		blobRef, blobURL, size, contentType, versionTag, uploadedAt,
		checksum, originalName,
	)
	if err != nil {
		return fmt.Errorf("inserting node: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListChildren(projectID, parentID string) ([]*model.Node, error) {
	nodes, err := s.listNodes(
		`SELECT `+nodeColumns+` FROM nodes
		 WHERE project_id = ? AND parent_id = ? AND (type = 'folder' OR is_latest)
		 ORDER BY CASE type WHEN 'folder' THEN 0 ELSE 1 END, name ASC`,
		projectID, parentID)
	if err != nil {
		return nil, fmt.Errorf("listing children: %w", err)
	}
	return nodes, nil
}

func (s *SQLiteStore) ListNodesAtPath(projectID, path string) ([]*model.Node, error) {
	// rowid breaks ties between uploads recorded in the same instant.
	nodes, err := s.listNodes(
		`SELECT `+nodeColumns+` FROM nodes
		 WHERE project_id = ? AND path = ?
		 ORDER BY uploaded_at DESC, rowid DESC`,
		projectID, path)
	if err != nil {
		return nil, fmt.Errorf("listing nodes at path: %w", err)
	}
	return nodes, nil
}

func (s *SQLiteStore) DemoteLatestAtPath(projectID, path string) error {
	_, err := s.db.Exec(
		`UPDATE nodes SET is_latest = FALSE
		 WHERE project_id = ? AND path = ? AND is_latest`,
		projectID, path)
	if err != nil {
		return fmt.Errorf("demoting latest at path: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DemoteAllLatest(projectID string) error {
	_, err := s.db.Exec(
		`UPDATE nodes SET is_latest = FALSE
		 WHERE project_id = ? AND type = 'file'`,
		projectID)
	if err != nil {
		return fmt.Errorf("demoting all latest: %w", err)
	}
	return nil
}

// Version operations

func (s *SQLiteStore) InsertVersion(version *model.Version) error {
	_, err := s.db.Exec(
		`INSERT INTO versions (id, project_id, label, notes, created_by,
		   created_at, bundle_ref, bundle_url, bundle_size, bundle_checksum)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		version.ID, version.ProjectID, version.Label, version.Notes,
		version.CreatedBy, version.CreatedAt, version.Bundle.BlobRef,
		version.Bundle.URL, version.Bundle.Size, version.Bundle.Checksum,
	)
	if err != nil {
		return fmt.Errorf("inserting version: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListVersions(projectID string) ([]*model.Version, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, label, notes, created_by, created_at,
		   bundle_ref, bundle_url, bundle_size, bundle_checksum
		 FROM versions WHERE project_id = ?
		 ORDER BY created_at DESC, rowid DESC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("listing versions: %w", err)
	}
	defer rows.Close()

	var versions []*model.Version
	for rows.Next() {
		var v model.Version
		err := rows.Scan(&v.ID, &v.ProjectID, &v.Label, &v.Notes, &v.CreatedBy,
			&v.CreatedAt, &v.Bundle.BlobRef, &v.Bundle.URL, &v.Bundle.Size,
			&v.Bundle.Checksum)
		if err != nil {
			return nil, fmt.Errorf("scanning version: %w", err)
		}
		versions = append(versions, &v)
	}
	return versions, rows.Err()
}

// DeleteProject removes every node and version belonging to the project in
// a single transaction.
func (s *SQLiteStore) DeleteProject(projectID string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM nodes WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting nodes: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM versions WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("deleting versions: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// MigrateUp brings the database schema to the latest version.
func (s *SQLiteStore) MigrateUp() error {
	return migrations.MigrateUp(s.db)
}

// ApplySchema creates the schema directly without migration bookkeeping.
// Intended for in-memory databases and tests.
func (s *SQLiteStore) ApplySchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date. In-memory
// databases get their schema applied directly and are never versioned.
func (s *SQLiteStore) CheckMigrations() error {
	if s.path == ":memory:" || s.path == "" {
		return nil
	}
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteStore implements fv.Store
var _ fv.Store = (*SQLiteStore)(nil)
