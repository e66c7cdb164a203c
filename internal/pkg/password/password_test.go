package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("hunter2")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, Verify("hunter2", hash))
	assert.False(t, Verify("hunter3", hash))
	assert.False(t, Verify("", hash))
}

func TestHash_SaltedPerCall(t *testing.T) {
	h1, err := Hash("hunter2")
	require.NoError(t, err)
	h2, err := Hash("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify("hunter2", h1))
	assert.True(t, Verify("hunter2", h2))
}

func TestHash_TooLongPassword(t *testing.T) {
	// bcrypt rejects inputs over 72 bytes.
	_, err := Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestVerify_BadHash(t *testing.T) {
	assert.False(t, Verify("hunter2", "not-a-bcrypt-hash"))
}
