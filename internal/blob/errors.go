// Package blob defines the object naming convention shared by the photo and
// sensor producers and the error kinds surfaced while reading the container.
package blob

import "errors"

var (
	// ErrStoreUnavailable is returned when a listing or fetch call fails at the
	// transport or auth layer.
	ErrStoreUnavailable = errors.New("object store unavailable")
	// ErrNotFound is returned when a named object is absent from the container.
	ErrNotFound = errors.New("object not found")
	// ErrDecode is returned when object bytes cannot be read as the expected type.
	ErrDecode = errors.New("object decode failed")
	// ErrMalformedName is returned when an object name does not carry a timestamp.
	ErrMalformedName = errors.New("malformed object name")
	// ErrUnknownPrefix is returned for a type prefix outside the known families.
	ErrUnknownPrefix = errors.New("unknown object prefix")
	// ErrInference is returned when the captioning model fails or returns nothing usable.
	ErrInference = errors.New("inference failed")
)
