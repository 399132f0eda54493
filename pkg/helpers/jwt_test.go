package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, exp, err := m.Generate("user-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	require.NotNil(t, claims.IssuedAt)
	assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, 5*time.Second)
}

func TestJWTExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, _, err := m.Generate("user-1")
	require.NoError(t, err)

	_, err = m.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTWrongSecret(t *testing.T) {
	token, _, err := NewJWTManager("secret-a", time.Hour).Generate("user-1")
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestJWTGarbage(t *testing.T) {
	_, err := NewJWTManager("test-secret", time.Hour).Parse("not-a-token")
	assert.ErrorIs(t, err, jwt.ErrTokenMalformed)
}
