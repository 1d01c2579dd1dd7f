package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestGenerateTemporaryPassword(t *testing.T) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	a, err := GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.Len(t, a, 12)
	for _, c := range a {
		assert.True(t, strings.ContainsRune(chars, c), "unexpected character %q", c)
	}

	b, err := GenerateTemporaryPassword()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
