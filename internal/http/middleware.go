package httpapi

import (
	"net/http"

	"github.com/yanpin0524/mini-ecommerce-API/internal/auth"
)

// RequireUser rejects requests that carry no gateway identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := auth.FromContext(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "missing required header: "+auth.HeaderUserID)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin additionally rejects non-admin callers.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.FromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing required header: "+auth.HeaderUserID)
			return
		}
		if !id.Admin {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
