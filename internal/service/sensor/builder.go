package sensor

import (
	"context"
	"errors"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/model"
)

// RecordFetcher materializes one sensor object.
type RecordFetcher interface {
	FetchRecord(ctx context.Context, name string) (*model.Record, error)
}

// Builder fetches sensor objects one by one and merges them into a Table.
type Builder struct {
	fetcher RecordFetcher
}

// NewBuilder creates a Builder reading records through fetcher.
func NewBuilder(fetcher RecordFetcher) *Builder {
	return &Builder{fetcher: fetcher}
}

// Build materializes every name in order and merges the records. A missing or
// corrupt object degrades to an all-missing row; only an unavailable store
// aborts the build.
func (b *Builder) Build(ctx context.Context, names []string) (*Table, error) {
	inputs := make([]RowInput, 0, len(names))
	for _, name := range names {
		record, err := b.fetcher.FetchRecord(ctx, name)
		if errors.Is(err, blob.ErrStoreUnavailable) {
			return nil, err
		}
		inputs = append(inputs, RowInput{Name: name, Record: record, Err: err})
	}
	return BuildTable(inputs), nil
}
