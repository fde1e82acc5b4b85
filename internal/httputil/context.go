package httputil

import (
	"context"
	"net/http"
)

// Context key type to avoid collisions
type contextKey string

const (
	siteIDKey contextKey = "siteID"
)

// WithSiteID adds the verified embedding-site ID to the request context.
func WithSiteID(r *http.Request, siteID string) *http.Request {
	ctx := context.WithValue(r.Context(), siteIDKey, siteID)
	return r.WithContext(ctx)
}

// GetSiteID retrieves the site ID from context, returns empty string if not found.
func GetSiteID(r *http.Request) string {
	siteID, _ := r.Context().Value(siteIDKey).(string)
	return siteID
}
