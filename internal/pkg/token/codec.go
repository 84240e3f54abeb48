// Package token signs and verifies the opaque bearer tokens handed to
// clients in the x-auth header.
//
// Tokens carry no expiry: a token stays valid until it is removed from its
// owner's token list, which is checked by the caller, not by this package.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when a token's signature or payload is bad.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret is returned by NewCodec when no signing secret is set.
	ErrEmptySecret = errors.New("token: signing secret must not be empty")
)

// Claims is the payload embedded in every token.
type Claims struct {
	SubjectID string `json:"_id"`
	Scope     string `json:"access"`
	jwt.RegisteredClaims
}

// Codec issues and verifies HS256-signed tokens.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

// NewCodec returns a Codec signing with secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	return &Codec{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}, nil
}

// Issue signs {subjectID, scope}. Each call gets a fresh jti and iat, so two
// sessions of the same user never share a token.
func (c *Codec) Issue(subjectID, scope string) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		SubjectID: subjectID,
		Scope:     scope,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	})
	return t.SignedString(c.secret)
}

// Verify checks the signature and returns the embedded claims.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tkn, err := c.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.SubjectID == "" || claims.Scope == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
