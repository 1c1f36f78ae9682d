package catalog

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/model"
	"cloudriddle/internal/repository/filesystem"
)

// setupTestStore creates a directory store in a temp dir.
func setupTestStore(t *testing.T) *filesystem.Store {
	t.Helper()

	store, err := filesystem.New(t.TempDir())
	require.NoError(t, err)
	return store
}

// putObject writes an object and pins its modification time.
func putObject(t *testing.T, store *filesystem.Store, name string, data []byte, modTime time.Time) {
	t.Helper()

	require.NoError(t, store.Put(name, data, nil))
	require.NoError(t, os.Chtimes(filepath.Join(store.Dir(), name), modTime, modTime))
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, G: 220, B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewGray(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// brokenStore fails every call at the transport layer.
type brokenStore struct{}

var errConnection = errors.New("connection refused")

func (brokenStore) List(ctx context.Context, prefix string) ([]model.ObjectInfo, error) {
	return nil, errors.Join(blob.ErrStoreUnavailable, errConnection)
}

func (brokenStore) Get(ctx context.Context, name string) ([]byte, error) {
	return nil, errors.Join(blob.ErrStoreUnavailable, errConnection)
}

func (brokenStore) GetMetadata(ctx context.Context, name string) (map[string]string, error) {
	return nil, errors.Join(blob.ErrStoreUnavailable, errConnection)
}

// countingStore records how many listing calls reach the store.
type countingStore struct {
	*filesystem.Store
	lists int
}

func (s *countingStore) List(ctx context.Context, prefix string) ([]model.ObjectInfo, error) {
	s.lists++
	return s.Store.List(ctx, prefix)
}
