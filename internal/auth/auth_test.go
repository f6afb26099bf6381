package auth

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	sessionID := uuid.New()

	token, err := GenerateToken(sessionID, "taylor@example.com", "Taylor")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, sessionID, claims.SessionID)
	assert.Equal(t, "taylor@example.com", claims.Email)
	assert.Equal(t, "Taylor", claims.Name)
	assert.Equal(t, "stocks-dashboard", claims.Issuer)
}

func TestValidateToken_Garbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(uuid.New(), "a@b.com", "A")
	require.NoError(t, err)

	orig := string(jwtSecret)
	SetSecret("a-different-secret")
	t.Cleanup(func() { SetSecret(orig) })

	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))
}
