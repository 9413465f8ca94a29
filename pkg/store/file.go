package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/utitree/pkg/document"
)

const snapshotFile = "snapshot.json"

// FileStore keeps the latest run as a JSON snapshot in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file store. If baseDir is empty it defaults to
// the utitree directory under os.UserConfigDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		baseDir = filepath.Join(dir, "utitree")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the snapshot file path.
func (s *FileStore) Path() string {
	return filepath.Join(s.baseDir, snapshotFile)
}

func (s *FileStore) Save(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byUTI := make(map[string]Record, len(records))
	for _, r := range records {
		byUTI[r.UTI] = r
	}
	data, err := json.MarshalIndent(byUTI, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := document.WriteBytes(s.Path(), data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) Get(ctx context.Context, uti string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var byUTI map[string]Record
	if err := json.Unmarshal(data, &byUTI); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	rec, ok := byUTI[uti]
	if !ok {
		return nil, ErrNotFound
	}
	return &rec, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
