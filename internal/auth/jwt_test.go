package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	Init("test-secret")

	token, err := GenerateToken(42, RoleStaff)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, RoleStaff, claims.Role)
}

func TestParseAndValidate_WrongSecret(t *testing.T) {
	Init("test-secret")
	token, err := GenerateToken(1, RoleClient)
	require.NoError(t, err)

	Init("another-secret")
	_, err = ParseAndValidate(token)
	assert.Error(t, err)
}

func TestParseAndValidate_RejectsUnexpectedAlgorithm(t *testing.T) {
	Init("test-secret")

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1,
		Role:   RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseAndValidate(raw)
	assert.Error(t, err, "only HS256 tokens may validate")
}

func TestParseAndValidate_Garbage(t *testing.T) {
	Init("test-secret")

	_, err := ParseAndValidate("not.a.token")
	assert.Error(t, err)
}
