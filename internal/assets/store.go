package assets

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// BlobStore holds question photos. Keys are server-assigned; the test
// definition references them via Question.PhotoKey.
type BlobStore interface {
	Put(r io.Reader) (key string, err error)
	Get(key string) (io.ReadCloser, error)
}

type FSStore struct{ base string }

func NewFSStore(base string) (*FSStore, error) {
	if base == "" {
		base = "./data"
	}
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, err
	}
	return &FSStore{base: base}, nil
}

func (s *FSStore) Put(r io.Reader) (string, error) {
	key := uuid.NewString()
	f, err := os.Create(filepath.Join(s.base, key))
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	return key, nil
}

func (s *FSStore) Get(key string) (io.ReadCloser, error) {
	if key == "" || strings.ContainsAny(key, "/\\") || strings.Contains(key, "..") {
		return nil, errors.New("assets: bad key")
	}
	return os.Open(filepath.Join(s.base, key))
}
