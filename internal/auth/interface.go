package auth

import "leadgate/internal/domain/models"

// TokenVerifier defines the interface for widget embed-token verification.
// This abstraction keeps the middleware agnostic to how tokens are verified.
type TokenVerifier interface {
	// VerifyToken validates an embed token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.EmbedClaims, error)

	// Close releases any resources held by the verifier (e.g., HTTP connections for JWKS).
	Close() error
}
