package azure

import (
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cloudriddle/internal/blob"
)

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New("", "", "cloud")
	assert.Error(t, err)

	_, err = New("account", "", "cloud")
	assert.Error(t, err)
}

func TestNew_ValidSharedKey(t *testing.T) {
	store, err := New("account", "c2VjcmV0LWtleQ==", "cloud")
	require.NoError(t, err)
	assert.Equal(t, "cloud", store.container)
}

func TestWrap_MapsErrorKinds(t *testing.T) {
	store := &Store{container: "cloud"}

	err := store.wrap(&azcore.ResponseError{ErrorCode: "BlobNotFound", StatusCode: 404}, "photo_20240101.jpg")
	assert.True(t, errors.Is(err, blob.ErrNotFound))
	assert.False(t, errors.Is(err, blob.ErrStoreUnavailable))

	err = store.wrap(&azcore.ResponseError{ErrorCode: "AuthenticationFailed", StatusCode: 403}, "photo_")
	assert.True(t, errors.Is(err, blob.ErrStoreUnavailable))

	err = store.wrap(errors.New("dial tcp: timeout"), "photo_")
	assert.True(t, errors.Is(err, blob.ErrStoreUnavailable))
}
