package http

import (
	"net/http"

	"github.com/quickmarket/storeauth/pkg/httpx"
	"github.com/quickmarket/storeauth/pkg/jwtx"
)

// JWKSHandler godoc
//
//	@Summary		JSON Web Key Set
//	@Description	Publishes the Ed25519 public keys so sibling storefront services can verify access tokens locally.
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	jwtx.JWKS	"keys"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		httpx.WriteJSON(w, http.StatusOK, keys.JWKS())
	}
}
