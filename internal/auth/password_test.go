package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	h1, err := HashPassword("secret")
	require.NoError(t, err)
	h2, err := HashPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, ComparePassword(h1, "secret"))
	assert.True(t, ComparePassword(h2, "secret"))
}

func TestComparePassword_Mismatch(t *testing.T) {
	h, err := HashPassword("secret")
	require.NoError(t, err)

	assert.False(t, ComparePassword(h, "not-secret"))
	assert.False(t, ComparePassword(h, ""))
}

func TestComparePassword_MalformedDigest(t *testing.T) {
	assert.False(t, ComparePassword("not-a-bcrypt-digest", "secret"))
	assert.False(t, ComparePassword("", "secret"))
}
