package auth

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tok, exp, err := GenerateToken(7, RoleAdmin)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := ValidateToken(tok)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "one")
	tok, _, err := GenerateToken(1, RoleAdmin)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "two")
	_, err = ValidateToken(tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "s3cret"))
	assert.False(t, CheckPassword(hash, "nope"))

	_, err = HashPassword("")
	assert.Error(t, err)
}
