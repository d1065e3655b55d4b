package app

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/quickmarket/storeauth/pkg/cryptox"
	"github.com/quickmarket/storeauth/pkg/jwtx"
)

// initSigningKeys loads the Ed25519 signing key from the configured PEM file,
// or generates an ephemeral one when no file is set. Ephemeral keys mean every
// restart invalidates outstanding access tokens, which is acceptable for dev
// and the short TTLs involved.
func initSigningKeys(cfg Config, logger *slog.Logger) (jwtx.Signer, *jwtx.KeySet, error) {
	var pemKey []byte
	switch {
	case cfg.SigningKeyFile != "":
		data, err := os.ReadFile(cfg.SigningKeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read signing key file: %w", err)
		}
		pemKey = data
		logger.Info("signing key loaded", "file", cfg.SigningKeyFile)

	default:
		data, err := jwtx.GenerateEd25519Key()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate signing key: %w", err)
		}
		pemKey = data
		logger.Warn("using ephemeral signing key, tokens will not survive restarts")
	}

	kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate key identifier: %w", err)
	}

	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize signer: %w", err)
	}

	keys := jwtx.NewKeySet()
	keys.AddSigner(signer)

	logger.Info("signing key ready", "alg", signer.Alg(), "kid", kid)
	return signer, keys, nil
}
