// Package catalog selects and materializes objects from the blob container.
package catalog

import (
	"context"
	"fmt"
	"sort"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/repository"
)

// Selector returns the most recently modified objects of one family.
type Selector struct {
	store repository.ObjectStore
}

// NewSelector creates a Selector over the given store.
func NewSelector(store repository.ObjectStore) *Selector {
	return &Selector{store: store}
}

// SelectLatest returns the names of the count most recently modified objects
// of the given family, newest first. Fewer objects than count yields all of
// them; count <= 0 yields an empty slice without touching the store.
func (s *Selector) SelectLatest(ctx context.Context, prefix blob.Prefix, count int) ([]string, error) {
	prefix, err := blob.ParsePrefix(string(prefix))
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return []string{}, nil
	}

	objects, err := s.store.List(ctx, prefix.ListPrefix())
	if err != nil {
		return nil, fmt.Errorf("list %s objects: %w", prefix, err)
	}

	// Equal timestamps are ordered by name so an unchanged container always
	// yields the same list.
	sort.SliceStable(objects, func(i, j int) bool {
		if !objects[i].LastModified.Equal(objects[j].LastModified) {
			return objects[i].LastModified.After(objects[j].LastModified)
		}
		return objects[i].Name > objects[j].Name
	})

	n := min(count, len(objects))
	names := make([]string, 0, n)
	for _, obj := range objects[:n] {
		names = append(names, obj.Name)
	}
	return names, nil
}
