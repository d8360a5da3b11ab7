package token

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the identity claims read from a bearer token.
type Claims struct {
	Subject string
	Issuer  string
}

// Unverified extracts claims from bearer tokens without checking the
// signature. Tokens are only sanity-checked structurally; the issuer
// allow-list check happens in the identity resolver. Do not treat the
// parsed claims as a trust boundary on their own.
type Unverified struct {
	parser *jwt.Parser
}

// NewUnverified creates a parser for unverified bearer tokens.
func NewUnverified() *Unverified {
	return &Unverified{parser: jwt.NewParser()}
}

// Parse decodes the token payload and returns its subject and issuer claims.
// Tokens missing either claim are rejected.
func (u *Unverified) Parse(tokenString string) (Claims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := u.parser.ParseUnverified(tokenString, claims); err != nil {
		return Claims{}, fmt.Errorf("failed to parse token: %w", err)
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return Claims{}, fmt.Errorf("failed to read subject claim: %w", err)
	}
	iss, err := claims.GetIssuer()
	if err != nil {
		return Claims{}, fmt.Errorf("failed to read issuer claim: %w", err)
	}
	if sub == "" || iss == "" {
		return Claims{}, errors.New("token has no subject or issuer")
	}

	return Claims{Subject: sub, Issuer: iss}, nil
}
