// Package filesystem implements the object store over a local directory. The
// last-modified time of an object is the file's modification time; metadata
// lives in an optional "<name>.meta.json" sidecar.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-json"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/model"
)

const metadataSuffix = ".meta.json"

// Store is a directory-backed object store.
type Store struct {
	dir string
}

// New creates a Store rooted at dir, creating the directory when absent.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the root directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// List enumerates objects whose name starts with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]model.ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", blob.ErrStoreUnavailable, err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", blob.ErrStoreUnavailable, s.dir, err)
	}

	var objects []model.ObjectInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || strings.HasSuffix(name, metadataSuffix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("%w: stat %s: %v", blob.ErrStoreUnavailable, name, err)
		}

		objects = append(objects, model.ObjectInfo{
			Name:         name,
			LastModified: info.ModTime(),
			Size:         info.Size(),
		})
	}
	return objects, nil
}

// Get returns the content of one object.
func (s *Store) Get(ctx context.Context, name string) ([]byte, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", blob.ErrStoreUnavailable, err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", blob.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", blob.ErrStoreUnavailable, name, err)
	}
	return data, nil
}

// GetMetadata returns the sidecar metadata of one object; an object without a
// sidecar has empty metadata.
func (s *Store) GetMetadata(ctx context.Context, name string) (map[string]string, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", blob.ErrNotFound, name)
	} else if err != nil {
		return nil, fmt.Errorf("%w: stat %s: %v", blob.ErrStoreUnavailable, name, err)
	}

	data, err := os.ReadFile(path + metadataSuffix)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read metadata %s: %v", blob.ErrStoreUnavailable, name, err)
	}

	metadata := map[string]string{}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("%w: metadata of %s: %v", blob.ErrDecode, name, err)
	}
	return metadata, nil
}

// Put writes an object and, when metadata is non-empty, its sidecar.
func (s *Store) Put(name string, data []byte, metadata map[string]string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	if len(metadata) > 0 {
		encoded, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		if err := os.WriteFile(path+metadataSuffix, encoded, 0644); err != nil {
			return fmt.Errorf("write metadata %s: %w", name, err)
		}
	}

	// Object last so watchers never see an object before its metadata.
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// Watch calls onCreate with the name of every object created or rewritten in
// the store until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onCreate func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				name := filepath.Base(event.Name)
				if strings.HasSuffix(name, metadataSuffix) {
					continue
				}
				if _, ok := blob.PrefixOf(name); ok {
					onCreate(name)
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return nil
}

// path resolves an object name inside the store, rejecting names that would
// escape the directory.
func (s *Store) path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: invalid object name %q", blob.ErrNotFound, name)
	}
	return filepath.Join(s.dir, name), nil
}
