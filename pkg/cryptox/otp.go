package cryptox

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// GenerateNumericCode returns a cryptographically random decimal code of
// exactly length digits. Leading zeros are preserved, so "042817" is a valid
// six-digit code.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 || length > 18 {
		return "", fmt.Errorf("cryptox: code length must be in [1,18], got %d", length)
	}

	max := big.NewInt(10)
	max.Exp(max, big.NewInt(int64(length)), nil)

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("cryptox: failed to generate numeric code: %w", err)
	}

	return fmt.Sprintf("%0*d", length, n), nil
}
