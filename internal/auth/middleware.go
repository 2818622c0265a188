package auth

import (
	"net/http"
	"strings"

	"github.com/Mayukh-Jain/equipviz/internal/auth/token"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
)

// Verifier checks an access token and returns its claims.
type Verifier interface {
	Verify(raw string) (token.Claims, error)
}

// Middleware rejects requests without a valid bearer token.
func Middleware(verifier Verifier) pkgrouter.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				pkgrouter.WriteJSON(w, map[string]string{"error": "authentication required"}, http.StatusUnauthorized)
				return
			}

			if _, err := verifier.Verify(raw); err != nil {
				pkgrouter.WriteJSON(w, map[string]string{"error": "invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
