package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/mcdev12/debatify/go/internal/timer"
)

// FileStore keeps the timer record as a JSON document on local disk, one
// file per key inside Dir.
type FileStore struct {
	dir string
	key string

	mu sync.Mutex
}

// NewFileStore returns a store rooted at dir. The directory is created on the
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, key: timer.StorageKey}
}

// Path is the file holding the record.
func (f *FileStore) Path() string {
	return filepath.Join(f.dir, f.key+".json")
}

func (f *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, timer.ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Path(), err)
	}
	return data, nil
}

// Save writes to a temp file in the same directory and renames it over the
// record, so a reader never sees a partial document.
func (f *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	tmp, err := os.CreateTemp(f.dir, f.key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace record: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.Path())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", f.Path(), err)
	}
	return nil
}
