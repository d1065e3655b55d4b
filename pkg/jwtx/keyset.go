package jwtx

import (
	"crypto/ed25519"
	"sync"
)

// KeySet holds the Ed25519 public keys trusted for verification, keyed by
// kid. Safe for concurrent use; keys can be added at runtime during rotation.
type KeySet struct {
	mu   sync.RWMutex
	keys map[string]ed25519.PublicKey
}

// NewKeySet builds an empty key set.
func NewKeySet() *KeySet {
	return &KeySet{keys: make(map[string]ed25519.PublicKey)}
}

// Add registers a public key under kid, replacing any existing entry.
func (ks *KeySet) Add(kid string, pub ed25519.PublicKey) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	ks.keys[kid] = pub
}

// AddSigner registers the public half of a local signer.
func (ks *KeySet) AddSigner(s Signer) {
	jwk := s.PublicJWK()
	pub, err := jwk.Ed25519PublicKey()
	if err != nil {
		return
	}
	ks.Add(jwk.KID, pub)
}

// Remove drops the key registered under kid, if any.
func (ks *KeySet) Remove(kid string) {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	delete(ks.keys, kid)
}

// IsReady reports whether at least one verification key is loaded.
func (ks *KeySet) IsReady() bool {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	return len(ks.keys) > 0
}

// Ed25519 looks up a public key by kid.
func (ks *KeySet) Ed25519(kid string) (ed25519.PublicKey, bool) {
	ks.mu.RLock()
	defer ks.mu.RUnlock()
	pub, ok := ks.keys[kid]
	return pub, ok
}

// JWKS renders the set as a publishable JWKS document.
func (ks *KeySet) JWKS() JWKS {
	ks.mu.RLock()
	defer ks.mu.RUnlock()

	out := JWKS{Keys: make([]JWK, 0, len(ks.keys))}
	for kid, pub := range ks.keys {
		out.Keys = append(out.Keys, NewEd25519JWK(kid, "sig", "EdDSA", pub))
	}
	return out
}
