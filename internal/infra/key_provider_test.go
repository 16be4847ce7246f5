package infra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileKeyProvider_EnsureKeyGenerates verifies first use creates a key
func TestFileKeyProvider_EnsureKeyGenerates(t *testing.T) {
	provider := NewFileKeyProvider(t.TempDir())

	assert.False(t, provider.KeyExists())

	key, err := provider.EnsureKey()

	require.NoError(t, err)
	assert.Len(t, key, keySize)
	assert.True(t, provider.KeyExists())
}

// TestFileKeyProvider_EnsureKeyStable verifies the key is reused once generated
func TestFileKeyProvider_EnsureKeyStable(t *testing.T) {
	provider := NewFileKeyProvider(t.TempDir())

	first, err := provider.EnsureKey()
	require.NoError(t, err)

	second, err := provider.EnsureKey()
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

// TestFileKeyProvider_StoreRejectsWrongSize verifies key size validation
func TestFileKeyProvider_StoreRejectsWrongSize(t *testing.T) {
	provider := NewFileKeyProvider(t.TempDir())

	err := provider.StoreKey([]byte("short"))

	assert.Error(t, err)
}

// TestFileKeyProvider_GetMissingKey verifies reading before generation fails
func TestFileKeyProvider_GetMissingKey(t *testing.T) {
	provider := NewFileKeyProvider(t.TempDir())

	_, err := provider.GetKey()

	assert.Error(t, err)
}
