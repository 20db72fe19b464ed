package model

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kailas-cloud/jobrank/internal/index"
)

const currentDir = "current"

// FileStore keeps the model as JSON files under <dir>/current.
// Save writes a fresh temp directory and renames it into place, so a
// reader sees either the old triple or the new one.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates the base directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Save writes all artifacts, then swaps the directory into place.
func (s *FileStore) Save(ctx context.Context, snap *index.Snapshot) error {
	b, err := encode(snap)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("save model: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := filepath.Join(s.dir, ".tmp-"+snap.ID())
	if err := os.RemoveAll(tmp); err != nil {
		return fmt.Errorf("clean temp dir: %w", err)
	}
	if err := os.Mkdir(tmp, 0o750); err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	// Manifest last: a directory without one is never treated as complete.
	files := []struct {
		name string
		data []byte
	}{
		{ArtifactVectorizer, b.Vectorizer},
		{ArtifactMatrix, b.Matrix},
		{ArtifactCorpus, b.Corpus},
		{ArtifactManifest, b.Manifest},
	}
	for _, f := range files {
		if err := writeSynced(filepath.Join(tmp, f.name+".json"), f.data); err != nil {
			_ = os.RemoveAll(tmp)
			return err
		}
	}

	cur := filepath.Join(s.dir, currentDir)
	old := filepath.Join(s.dir, ".old-"+snap.ID())
	hadCurrent := true
	if err := os.Rename(cur, old); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			_ = os.RemoveAll(tmp)
			return fmt.Errorf("retire previous model: %w", err)
		}
		hadCurrent = false
	}
	if err := os.Rename(tmp, cur); err != nil {
		if hadCurrent {
			_ = os.Rename(old, cur)
		}
		_ = os.RemoveAll(tmp)
		return fmt.Errorf("publish model: %w", err)
	}
	if hadCurrent {
		_ = os.RemoveAll(old)
	}
	return nil
}

// Load reads <dir>/current. A missing directory is Absent; a partial or
// mismatched triple is Corrupt.
func (s *FileStore) Load(ctx context.Context) LoadResult {
	if err := ctx.Err(); err != nil {
		return ioError(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur := filepath.Join(s.dir, currentDir)
	if _, err := os.Stat(cur); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return absent()
		}
		return ioError(fmt.Errorf("stat model: %w", err))
	}

	var b bundle
	targets := []struct {
		name string
		dst  *[]byte
	}{
		{ArtifactManifest, &b.Manifest},
		{ArtifactVectorizer, &b.Vectorizer},
		{ArtifactMatrix, &b.Matrix},
		{ArtifactCorpus, &b.Corpus},
	}
	for _, t := range targets {
		data, err := os.ReadFile(filepath.Join(cur, t.name+".json"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return corrupt(fmt.Errorf("artifact %s missing", t.name))
			}
			return ioError(fmt.Errorf("read %s: %w", t.name, err))
		}
		*t.dst = data
	}

	snap, err := decode(b)
	if err != nil {
		return corrupt(err)
	}
	return loaded(snap)
}

func writeSynced(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	return nil
}
