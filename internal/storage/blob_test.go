package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoragePutDelete(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	s, err := NewLocalStorage(root, "http://localhost:8080/storage/")
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "office-images/a.jpg", strings.NewReader("bytes")))
	data, err := os.ReadFile(filepath.Join(root, "office-images", "a.jpg"))
	require.NoError(t, err)
	require.Equal(t, "bytes", string(data))

	require.NoError(t, s.Delete(ctx, "office-images/a.jpg"))
	_, err = os.Stat(filepath.Join(root, "office-images", "a.jpg"))
	require.True(t, os.IsNotExist(err))

	// deleting a missing blob is not an error
	require.NoError(t, s.Delete(ctx, "office-images/a.jpg"))
}

func TestLocalStorageConfinesPaths(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	outside := filepath.Join(filepath.Dir(root), "escape.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	s, err := NewLocalStorage(root, "http://localhost:8080/storage")
	require.NoError(t, err)

	// traversal components collapse inside the root
	require.NoError(t, s.Put(ctx, "../escape.txt", strings.NewReader("overwrite")))
	data, err := os.ReadFile(outside)
	require.NoError(t, err)
	require.Equal(t, "keep", string(data))
}

func TestLocalStorageURLFor(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/storage/")
	require.NoError(t, err)
	require.Equal(t,
		"http://localhost:8080/storage/office-images/a.jpg",
		s.URLFor("office-images/a.jpg"))
}
