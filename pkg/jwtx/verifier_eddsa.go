package jwtx

import (
	"crypto/ed25519"
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// EdDSAVerifier verifies Ed25519-signed tokens against a key set, resolving
// the signing key via the token's kid header.
type EdDSAVerifier struct {
	keys     *KeySet
	issuer   string
	audience []string
}

// NewVerifierEdDSA wraps a key set with issuer/audience policy. Empty issuer
// or audience disables the respective check.
func NewVerifierEdDSA(keys *KeySet, issuer string, audience []string) *EdDSAVerifier {
	return &EdDSAVerifier{keys: keys, issuer: issuer, audience: audience}
}

// Verify parses, checks the signature and validates standard claims.
func (v *EdDSAVerifier) Verify(token string) (Claims, error) {
	var claims Claims

	_, err := jwt.ParseWithClaims(token, &claims, v.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
	)
	if err != nil {
		return Claims{}, normalizeParseError(err)
	}

	if err := claims.ValidateIssuer(v.issuer); err != nil {
		return Claims{}, err
	}
	if err := claims.ValidateAudience(v.audience); err != nil {
		return Claims{}, err
	}

	return claims, nil
}

func (v *EdDSAVerifier) keyFunc(t *jwt.Token) (any, error) {
	kid, _ := t.Header["kid"].(string)
	if kid == "" {
		return nil, ErrKeyNotFound
	}

	pub, ok := v.keys.Ed25519(kid)
	if !ok {
		return nil, ErrKeyNotFound
	}
	return ed25519.PublicKey(pub), nil
}

func normalizeParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable), errors.Is(err, ErrKeyNotFound):
		return ErrKeyNotFound
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
