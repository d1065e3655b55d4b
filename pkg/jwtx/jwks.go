package jwtx

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
)

// JWK is a JSON Web Key restricted to the OKP/Ed25519 shape this service
// issues.
type JWK struct {
	Kty string `json:"kty"`
	Crv string `json:"crv,omitempty"`
	KID string `json:"kid,omitempty"`
	Use string `json:"use,omitempty"`
	Alg string `json:"alg,omitempty"`
	X   string `json:"x,omitempty"`
}

// JWKS is a JSON Web Key Set document.
type JWKS struct {
	Keys []JWK `json:"keys"`
}

// NewEd25519JWK encodes an Ed25519 public key as an OKP JWK.
func NewEd25519JWK(kid, use, alg string, pub ed25519.PublicKey) JWK {
	return JWK{
		Kty: "OKP",
		Crv: "Ed25519",
		KID: kid,
		Use: use,
		Alg: alg,
		X:   base64.RawURLEncoding.EncodeToString(pub),
	}
}

// Ed25519PublicKey decodes the key material back into an Ed25519 public key.
func (k JWK) Ed25519PublicKey() (ed25519.PublicKey, error) {
	if k.Kty != "OKP" || k.Crv != "Ed25519" {
		return nil, errors.New("jwtx: not an Ed25519 JWK")
	}

	raw, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, errors.New("jwtx: invalid JWK x coordinate")
	}
	if len(raw) != ed25519.PublicKeySize {
		return nil, errors.New("jwtx: wrong Ed25519 key length")
	}
	return ed25519.PublicKey(raw), nil
}
