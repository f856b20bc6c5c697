package localfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

type objectStore struct {
	root string
}

// NewObjectStore keeps registry objects under root. It stands in for the
// remote bucket in local development and tests.
func NewObjectStore(root string) ports.ObjectStore {
	return &objectStore{root: root}
}

func (s *objectStore) path(key string) string {
	return filepath.Join(s.root, filepath.FromSlash(key))
}

func (s *objectStore) Put(ctx context.Context, key string, body []byte) error {
	p := s.path(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	// write then rename so readers never observe a partial object
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	if err := os.Rename(tmp, p); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *objectStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrObjectNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return b, nil
}

func (s *objectStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("stat %s: %w", key, err)
}
