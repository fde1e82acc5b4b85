package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"leadgate/internal/domain"
	"leadgate/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier implements TokenVerifier using the embedding site's JWKS
// endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from the given
// JWKS endpoint. Keys are cached and refreshed based on HTTP cache headers.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (TokenVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx := context.Background()
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("create JWKS client: %w", err)
	}

	logger.Info("embed token verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates an embed token and extracts its claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.EmbedClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.EmbedClaims{}, v.jwks.Keyfunc)
	if err != nil {
		v.logger.Debug("embed token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		return nil, domain.ErrUnauthorized
	}

	// Prevent algorithm confusion attacks - allow only RS256 or ES256
	switch token.Method.Alg() {
	case "RS256", "ES256":
		// allowed
	default:
		v.logger.Warn("embed token uses unexpected algorithm", "algorithm", token.Method.Alg())
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.EmbedClaims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}

// Close releases verifier resources. The keyfunc client has no explicit
// shutdown; this satisfies the TokenVerifier interface.
func (v *JWKSVerifier) Close() error {
	return nil
}
