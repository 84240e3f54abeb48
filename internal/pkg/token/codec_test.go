package token

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCodec_RejectsEmptySecret(t *testing.T) {
	_, err := NewCodec("")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestCodec_IssueAndVerify(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	tok, err := codec.Issue("65f1c2d3e4a5b6c7d8e9f0a1", "auth")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := codec.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "65f1c2d3e4a5b6c7d8e9f0a1", claims.SubjectID)
	assert.Equal(t, "auth", claims.Scope)
}

func TestCodec_IssueIsUniquePerCall(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	first, err := codec.Issue("user-1", "auth")
	require.NoError(t, err)
	second, err := codec.Issue("user-1", "auth")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	a, err := codec.Verify(first)
	require.NoError(t, err)
	b, err := codec.Verify(second)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotNil(t, a.IssuedAt)
	assert.Nil(t, a.ExpiresAt)
}

func TestCodec_VerifyWrongSecret(t *testing.T) {
	issuer, err := NewCodec("secret-1")
	require.NoError(t, err)
	verifier, err := NewCodec("secret-2")
	require.NoError(t, err)

	tok, err := issuer.Issue("user-1", "auth")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_VerifyMalformed(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "random string", token: "not.a.valid.token"},
		{name: "truncated jwt", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.invalid"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestCodec_VerifyMissingClaims(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"access": "auth",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCodec_VerifyRejectsOtherAlgorithms(t *testing.T) {
	codec, err := NewCodec("test-secret")
	require.NoError(t, err)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		SubjectID: "user-1",
		Scope:     "auth",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = codec.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
