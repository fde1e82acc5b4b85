package middleware

import (
	"net/http"
	"strings"

	"leadgate/internal/auth"
	"leadgate/internal/httputil"
)

// EmbedAuth validates the widget embed token on API routes and stores the
// verified site ID in the request context. When verifier is nil (no JWKS URL
// configured) authentication is disabled entirely - the dev setup.
//
// The beacon route is always exempt: navigator.sendBeacon cannot set an
// Authorization header.
func EmbedAuth(verifier auth.TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil || exemptPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing embed token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid embed token")
				return
			}

			next.ServeHTTP(w, httputil.WithSiteID(r, claims.GetSiteID()))
		})
	}
}

func exemptPath(path string) bool {
	return path == "/health" || strings.HasSuffix(path, "/beacon")
}
