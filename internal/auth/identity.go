// Package auth carries the per-request identity injected by an upstream
// gateway. Authentication itself happens outside this service; we only trust
// the forwarded headers.
package auth

import (
	"context"
	"net/http"
	"strings"
)

const (
	HeaderUserID   = "X-User-Id"
	HeaderUserRole = "X-User-Role"
	RoleAdmin      = "admin"
)

type Identity struct {
	UserID string
	Admin  bool
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}

// Middleware copies the gateway identity headers into the request context.
// It never rejects; route groups decide what they require.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := strings.TrimSpace(r.Header.Get(HeaderUserID))
		if uid != "" {
			admin := strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderUserRole)), RoleAdmin)
			r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: uid, Admin: admin}))
		}
		next.ServeHTTP(w, r)
	})
}
