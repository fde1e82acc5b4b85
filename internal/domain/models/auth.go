package models

import "github.com/golang-jwt/jwt/v5"

// EmbedClaims represents the JWT claims of a widget embed token. Sites that
// embed the widget mint these server-side; the backend verifies them against
// the site's JWKS endpoint.
type EmbedClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	SiteID               string `json:"site_id"`
	Origin               string `json:"origin,omitempty"`
}

// GetSiteID returns the embedding site's identifier, falling back to the
// subject claim when the custom claim is absent.
func (c *EmbedClaims) GetSiteID() string {
	if c.SiteID != "" {
		return c.SiteID
	}
	return c.Subject
}
