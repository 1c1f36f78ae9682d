package blob

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCaptureTime(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"sensor_data_20240115103045.json", "2024-01-15 10:30:45"},
		{"photo_20240115.jpg", "2024-01-15"},
		{"photo_20240115103045.jpg", "2024-01-15 10:30:45"},
		{"photo_20231231235959", "2023-12-31 23:59:59"},
		{"photo_20240229.tar.gz", "2024-02-29"},
		{"snapshot_20240115.png", "2024-01-15"},
	}

	for _, tt := range tests {
		result, err := DecodeCaptureTime(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.expected, result, tt.name)
	}
}

func TestDecodeCaptureTime_Malformed(t *testing.T) {
	names := []string{
		"photo",
		"noseparator.jpg",
		"photo_.jpg",
		"photo_2024.jpg",
		"photo_20241315.jpg",
		"photo_latest.jpg",
		"sensor_data_abc.json",
		"photo_202401151030.jpg",
	}

	for _, name := range names {
		_, err := DecodeCaptureTime(name)
		assert.True(t, errors.Is(err, ErrMalformedName), "expected malformed-name for %q, got %v", name, err)
	}
}

func TestCaptureTime_ReportsClock(t *testing.T) {
	ts, hasClock, err := CaptureTime("photo_20240115103045.jpg")
	require.NoError(t, err)
	assert.True(t, hasClock)
	assert.Equal(t, time.Date(2024, 1, 15, 10, 30, 45, 0, time.UTC), ts)

	ts, hasClock, err = CaptureTime("photo_20240115.jpg")
	require.NoError(t, err)
	assert.False(t, hasClock)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), ts)
}

func TestParsePrefix(t *testing.T) {
	p, err := ParsePrefix("photo")
	require.NoError(t, err)
	assert.Equal(t, PrefixPhoto, p)
	assert.Equal(t, "photo_", p.ListPrefix())

	p, err = ParsePrefix("sensor_data_")
	require.NoError(t, err)
	assert.Equal(t, PrefixSensorData, p)

	_, err = ParsePrefix("video")
	assert.ErrorIs(t, err, ErrUnknownPrefix)

	_, err = ParsePrefix("")
	assert.ErrorIs(t, err, ErrUnknownPrefix)
}

func TestPrefixOf(t *testing.T) {
	p, ok := PrefixOf("sensor_data_20240115.json")
	assert.True(t, ok)
	assert.Equal(t, PrefixSensorData, p)

	p, ok = PrefixOf("photo_20240115.jpg")
	assert.True(t, ok)
	assert.Equal(t, PrefixPhoto, p)

	_, ok = PrefixOf("photograph.jpg")
	assert.False(t, ok)
}
