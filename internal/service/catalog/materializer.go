package catalog

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/goccy/go-json"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/model"
	"cloudriddle/internal/repository"
)

const (
	metadataTimeTaken = "time_taken"
	metadataLocation  = "location"

	unknownTimeTaken = "Unknown time"
	unknownLocation  = "Unknown location"
)

// Materializer fetches single objects and decodes them into typed values.
type Materializer struct {
	store repository.ObjectStore
}

// NewMaterializer creates a Materializer over the given store.
func NewMaterializer(store repository.ObjectStore) *Materializer {
	return &Materializer{store: store}
}

// Fetch returns the raw content of one object.
func (m *Materializer) Fetch(ctx context.Context, name string) ([]byte, error) {
	data, err := m.store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return data, nil
}

// FetchImage fetches an object and decodes it as a raster image.
func (m *Materializer) FetchImage(ctx context.Context, name string) (*model.Image, error) {
	data, err := m.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return DecodeImage(name, data)
}

// FetchRecord fetches an object and decodes it as one flat sensor record.
func (m *Materializer) FetchRecord(ctx context.Context, name string) (*model.Record, error) {
	data, err := m.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return DecodeRecord(name, data)
}

// FetchMetadata returns the capture metadata of a photo, falling back to
// placeholder values for keys the producer did not set.
func (m *Materializer) FetchMetadata(ctx context.Context, name string) (*model.PhotoMetadata, error) {
	metadata, err := m.store.GetMetadata(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata %s: %w", name, err)
	}

	result := &model.PhotoMetadata{TimeTaken: unknownTimeTaken, Location: unknownLocation}
	if v, ok := metadata[metadataTimeTaken]; ok && v != "" {
		result.TimeTaken = v
	}
	if v, ok := metadata[metadataLocation]; ok && v != "" {
		result.Location = v
	}
	return result, nil
}

// DecodeImage decodes encoded image bytes and reports the source format.
func DecodeImage(name string, data []byte) (*model.Image, error) {
	pixels, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not an image: %v", blob.ErrDecode, name, err)
	}

	bounds := pixels.Bounds()
	return &model.Image{
		Name:   name,
		Format: format,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Pixels: pixels,
		Data:   data,
	}, nil
}

// DecodeRecord decodes a serialized JSON object into an ordered record.
func DecodeRecord(name string, data []byte) (*model.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: %s is not a JSON object", blob.ErrDecode, name)
	}

	record := model.NewRecord(name)
	if err := json.Unmarshal(trimmed, record.Fields); err != nil {
		return nil, fmt.Errorf("%w: %s is not a JSON object: %v", blob.ErrDecode, name, err)
	}
	return record, nil
}
