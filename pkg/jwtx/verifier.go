package jwtx

import "errors"

// Signature and claim validation errors. Verifiers normalize library errors
// into these sentinels so callers can branch without string matching.
var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrSignature   = errors.New("jwtx: invalid signature")
	ErrAlgorithm   = errors.New("jwtx: unexpected signing algorithm")
	ErrKeyNotFound = errors.New("jwtx: unknown key id")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrAudience    = errors.New("jwtx: audience mismatch")
)

// Verifier parses and verifies compact JWTs into Claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}
