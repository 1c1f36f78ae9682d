package model

import (
	"image"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ObjectInfo is one listing entry of the object store.
type ObjectInfo struct {
	Name         string    `json:"name"`
	LastModified time.Time `json:"last_modified"`
	Size         int64     `json:"size"`
}

// Image is a decoded photo. Data keeps the original encoded bytes so the photo
// can be forwarded without re-encoding.
type Image struct {
	Name   string      `json:"name"`
	Format string      `json:"format"`
	Width  int         `json:"width"`
	Height int         `json:"height"`
	Pixels image.Image `json:"-"`
	Data   []byte      `json:"-"`
}

// Record is one decoded sensor object: a flat mapping that keeps the field
// order of the serialized form.
type Record struct {
	Name   string
	Fields *orderedmap.OrderedMap[string, any]
}

// NewRecord creates an empty record for the named object.
func NewRecord(name string) *Record {
	return &Record{Name: name, Fields: orderedmap.New[string, any]()}
}

// Keys returns the field names in serialized order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Fields.Len())
	for pair := r.Fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns a field value.
func (r *Record) Get(key string) (any, bool) {
	return r.Fields.Get(key)
}

// PhotoMetadata holds the producer-supplied metadata of a photo.
type PhotoMetadata struct {
	TimeTaken string `json:"time_taken"`
	Location  string `json:"location"`
}
