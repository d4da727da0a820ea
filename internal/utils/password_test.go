package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Correct1Horse")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	assert.True(t, VerifyPassword(hash, "Correct1Horse"))
	assert.False(t, VerifyPassword(hash, "wrong1Horse"))
	assert.False(t, VerifyPassword(hash, ""))
}

func TestHashPasswordSalts(t *testing.T) {
	h1, err := HashPassword("Correct1Horse")
	require.NoError(t, err)
	h2, err := HashPassword("Correct1Horse")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	for _, encoded := range []string{
		"",
		"plaintext",
		"$argon2id$v=19$m=65536,t=4,p=3$notbase64!!$alsonot!!",
		"$bcrypt$v=19$m=65536,t=4,p=3$c2FsdA$aGFzaA",
	} {
		assert.False(t, VerifyPassword(encoded, "whatever"), "hash %q", encoded)
	}
}
