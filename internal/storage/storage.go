package storage

import (
	"os"
	"path/filepath"
)

// ImageStore persists recipe image blobs under opaque paths. Callers decide
// the key; the store only moves bytes.
type ImageStore interface {
	Put(key string, data []byte) (string, error)
	Delete(path string) error
	// URL maps a stored path to the address clients fetch it from.
	URL(path string) string
}

// LocalStore keeps blobs on the local filesystem and serves them from the
// /uploads/recipes static route.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Put(key string, data []byte) (string, error) {
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", err
	}
	return key, nil
}

func (s *LocalStore) Delete(path string) error {
	err := os.Remove(filepath.Join(s.dir, path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *LocalStore) URL(path string) string {
	return "/uploads/recipes/" + path
}
