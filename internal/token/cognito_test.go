package token

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tokenString
}

func TestUnverified_Parse(t *testing.T) {
	t.Parallel()

	parser := NewUnverified()

	tokenString := signedToken(t, jwt.MapClaims{
		"sub": "user-1",
		"iss": "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_abc123",
	})

	claims, err := parser.Parse(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "https://cognito-idp.us-east-1.amazonaws.com/us-east-1_abc123", claims.Issuer)
}

func TestUnverified_Parse_IgnoresSignature(t *testing.T) {
	t.Parallel()

	parser := NewUnverified()

	tokenString := signedToken(t, jwt.MapClaims{"sub": "user-1", "iss": "issuer"})
	// Corrupt the signature segment; the parser only reads the payload.
	tokenString = tokenString[:len(tokenString)-4] + "AAAA"

	claims, err := parser.Parse(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestUnverified_Parse_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		tokenString string
	}{
		{
			name:        "garbage",
			tokenString: "not-a-token",
		},
		{
			name:        "empty",
			tokenString: "",
		},
		{
			name:        "missing subject",
			tokenString: mustSign(jwt.MapClaims{"iss": "issuer"}),
		},
		{
			name:        "missing issuer",
			tokenString: mustSign(jwt.MapClaims{"sub": "user-1"}),
		},
	}

	parser := NewUnverified()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parser.Parse(tt.tokenString)
			assert.Error(t, err)
		})
	}
}

func mustSign(claims jwt.MapClaims) string {
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		panic(err)
	}
	return tokenString
}
