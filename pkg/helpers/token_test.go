package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenResetToken(t *testing.T) {
	plain, digest, err := GenResetToken()
	require.NoError(t, err)

	assert.Len(t, plain, 64) // 32 random bytes, hex encoded
	assert.NotEqual(t, plain, digest)
	assert.Equal(t, digest, HashResetToken(plain))
}

func TestGenResetTokenUnique(t *testing.T) {
	a, _, err := GenResetToken()
	require.NoError(t, err)
	b, _, err := GenResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
