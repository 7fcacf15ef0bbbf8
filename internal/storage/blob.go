package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStorage is the boundary for image bytes. Paths are opaque keys
// chosen by the caller; URLFor turns a key into a client-reachable URL.
type BlobStorage interface {
	Put(ctx context.Context, path string, contents io.Reader) error
	Delete(ctx context.Context, path string) error
	URLFor(path string) string
}

/* ------------------------------------------------------------------
   Local-disk implementation
------------------------------------------------------------------ */

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage stores blobs under root and serves them from baseURL.
func NewLocalStorage(root, baseURL string) (BlobStorage, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &localStorage{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *localStorage) diskPath(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	return filepath.Join(s.root, clean), nil
}

func (s *localStorage) Put(_ context.Context, path string, contents io.Reader) error {
	dst, err := s.diskPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(f, contents)
	return err
}

func (s *localStorage) Delete(_ context.Context, path string) error {
	dst, err := s.diskPath(path)
	if err != nil {
		return err
	}
	err = os.Remove(dst)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *localStorage) URLFor(path string) string {
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}
