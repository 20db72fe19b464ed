package model

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/jobrank/internal/index"
)

// SQLiteStore keeps the artifacts as rows of the model_artifacts table.
// Save replaces every row in one transaction.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (or creates) the database file and its schema.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("sqlite: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS model_artifacts (
		name       TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save replaces all artifacts atomically.
func (s *SQLiteStore) Save(ctx context.Context, snap *index.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM model_artifacts`); err != nil {
		return fmt.Errorf("sqlite: clear artifacts: %w", err)
	}
	for name, data := range map[string][]byte{
		ArtifactManifest:   b.Manifest,
		ArtifactVectorizer: b.Vectorizer,
		ArtifactMatrix:     b.Matrix,
		ArtifactCorpus:     b.Corpus,
	} {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO model_artifacts (name, data) VALUES (?, ?)`, name, data,
		); err != nil {
			return fmt.Errorf("sqlite: insert %s: %w", name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit: %w", err)
	}
	return nil
}

// Load reads all artifacts. No rows is Absent; a partial set is Corrupt.
func (s *SQLiteStore) Load(ctx context.Context) LoadResult {
	rows, err := s.db.QueryContext(ctx, `SELECT name, data FROM model_artifacts`)
	if err != nil {
		return ioError(fmt.Errorf("sqlite: query artifacts: %w", err))
	}
	defer func() { _ = rows.Close() }()

	blobs := make(map[string][]byte, 4)
	for rows.Next() {
		var name string
		var data []byte
		if err := rows.Scan(&name, &data); err != nil {
			return ioError(fmt.Errorf("sqlite: scan artifact: %w", err))
		}
		blobs[name] = data
	}
	if err := rows.Err(); err != nil {
		return ioError(fmt.Errorf("sqlite: iterate artifacts: %w", err))
	}

	return fromBlobs(blobs)
}

// fromBlobs classifies a name -> blob set read from a backend.
func fromBlobs(blobs map[string][]byte) LoadResult {
	if len(blobs) == 0 {
		return absent()
	}
	b := bundle{
		Manifest:   blobs[ArtifactManifest],
		Vectorizer: blobs[ArtifactVectorizer],
		Matrix:     blobs[ArtifactMatrix],
		Corpus:     blobs[ArtifactCorpus],
	}
	for name, blob := range map[string][]byte{
		ArtifactManifest:   b.Manifest,
		ArtifactVectorizer: b.Vectorizer,
		ArtifactMatrix:     b.Matrix,
		ArtifactCorpus:     b.Corpus,
	} {
		if blob == nil {
			return corrupt(fmt.Errorf("artifact %s missing", name))
		}
	}
	snap, err := decode(b)
	if err != nil {
		return corrupt(err)
	}
	return loaded(snap)
}
