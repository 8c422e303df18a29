package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenPayload captures the data available when minting a gateway JWT.
// The gateway never embeds the upstream bearer token in the JWT; the token
// only references the session row that holds it.
type SessionTokenPayload struct {
	SessionID string
	UserID    int64
}

// SessionTokenClaims represents the typed JWT issued to the storefront.
type SessionTokenClaims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}
