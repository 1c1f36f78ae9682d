package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudriddle/internal/blob"
)

func TestFetchImage_DecodesFormat(t *testing.T) {
	store := setupTestStore(t)
	now := time.Now()
	putObject(t, store, "photo_20240115.png", encodePNG(t, 4, 3), now)
	putObject(t, store, "photo_20240116.jpg", encodeJPEG(t, 8, 8), now)
	m := NewMaterializer(store)

	img, err := m.FetchImage(context.Background(), "photo_20240115.png")
	require.NoError(t, err)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.NotEmpty(t, img.Data)

	img, err = m.FetchImage(context.Background(), "photo_20240116.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", img.Format)
}

func TestFetchImage_CorruptIsDecodeError(t *testing.T) {
	store := setupTestStore(t)
	putObject(t, store, "photo_20240115.jpg", []byte("not really a jpeg"), time.Now())

	_, err := NewMaterializer(store).FetchImage(context.Background(), "photo_20240115.jpg")
	assert.ErrorIs(t, err, blob.ErrDecode)
	assert.NotErrorIs(t, err, blob.ErrNotFound)
}

func TestFetch_MissingIsNotFound(t *testing.T) {
	m := NewMaterializer(setupTestStore(t))

	_, err := m.FetchImage(context.Background(), "photo_20240115.jpg")
	assert.ErrorIs(t, err, blob.ErrNotFound)
	assert.NotErrorIs(t, err, blob.ErrDecode)

	_, err = m.FetchRecord(context.Background(), "sensor_data_20240115.json")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestFetchRecord_KeepsFieldOrder(t *testing.T) {
	store := setupTestStore(t)
	putObject(t, store, "sensor_data_20240115.json",
		[]byte(`{"temperature": 21.5, "humidity": "40", "pressure": 1013, "status": null}`), time.Now())

	record, err := NewMaterializer(store).FetchRecord(context.Background(), "sensor_data_20240115.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"temperature", "humidity", "pressure", "status"}, record.Keys())

	v, ok := record.Get("temperature")
	require.True(t, ok)
	assert.Equal(t, 21.5, v)

	v, ok = record.Get("status")
	require.True(t, ok)
	assert.Nil(t, v)
}

func TestDecodeRecord_Malformed(t *testing.T) {
	for _, data := range []string{``, `null`, `[1, 2]`, `{"a": `, `"text"`, `42`} {
		_, err := DecodeRecord("sensor_data_20240115.json", []byte(data))
		assert.ErrorIs(t, err, blob.ErrDecode, "input %q", data)
	}
}

func TestDecodeIsPure(t *testing.T) {
	data := []byte(`{"a": 1, "b": "x"}`)

	first, err := DecodeRecord("sensor_data_20240115.json", data)
	require.NoError(t, err)
	second, err := DecodeRecord("sensor_data_20240115.json", data)
	require.NoError(t, err)
	assert.Equal(t, first.Keys(), second.Keys())
	for _, key := range first.Keys() {
		a, _ := first.Get(key)
		b, _ := second.Get(key)
		assert.Equal(t, a, b)
	}

	png := encodePNG(t, 2, 2)
	imgA, err := DecodeImage("photo_20240115.png", png)
	require.NoError(t, err)
	imgB, err := DecodeImage("photo_20240115.png", png)
	require.NoError(t, err)
	assert.Equal(t, imgA.Pixels, imgB.Pixels)
}

func TestFetchMetadata_Defaults(t *testing.T) {
	store := setupTestStore(t)
	require.NoError(t, store.Put("photo_20240115.jpg", []byte("a"), map[string]string{"location": "Rooftop"}))
	m := NewMaterializer(store)

	meta, err := m.FetchMetadata(context.Background(), "photo_20240115.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Rooftop", meta.Location)
	assert.Equal(t, "Unknown time", meta.TimeTaken)

	_, err = m.FetchMetadata(context.Background(), "photo_missing.jpg")
	assert.ErrorIs(t, err, blob.ErrNotFound)
}

func TestFetch_StoreUnavailable(t *testing.T) {
	_, err := NewMaterializer(brokenStore{}).FetchRecord(context.Background(), "sensor_data_20240115.json")
	assert.ErrorIs(t, err, blob.ErrStoreUnavailable)
}
