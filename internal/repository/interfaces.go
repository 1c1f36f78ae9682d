package repository

import (
	"context"

	"cloudriddle/internal/dto"
	"cloudriddle/internal/model"
)

// ObjectStore is the read-only view of the blob container holding the photo_*
// and sensor_data_* families.
type ObjectStore interface {
	// List enumerates objects whose name starts with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]model.ObjectInfo, error)
	// Get returns the content of one object.
	Get(ctx context.Context, name string) ([]byte, error)
	// GetMetadata returns the key-value metadata of one object.
	GetMetadata(ctx context.Context, name string) (map[string]string, error)
}

// RiddleRepository defines the interface for riddle history operations.
type RiddleRepository interface {
	// Create operations
	Insert(riddle *model.Riddle) (int64, error)

	// Read operations
	GetByID(id int64) (*model.Riddle, error)
	GetAll(filter *dto.RiddleFilters) ([]model.Riddle, error)
	GetTotalCount(filter *dto.RiddleFilters) (int, error)
	GetStats() (*model.RiddleStats, error)

	// Delete operations
	Delete(id int64) error
	DeleteAll() error
}

// SimilarityRepository defines the interface for the model answers of a riddle.
type SimilarityRepository interface {
	// Create operations
	InsertBatch(similarities []model.Similarity) error

	// Read operations
	GetByRiddleID(riddleID int64) ([]model.Similarity, error)
	GetAllLabels() ([]string, error)
}
