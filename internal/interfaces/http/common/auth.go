package common

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type contextKey string

const authUserContextKey contextKey = "authUser"

// AuthenticatedUser represents the JWT-derived principal.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}

// Requester identifies who issued the request: the authenticated user ID,
// or the client IP when the request is anonymous.
// RemoteAddr is expected to be rewritten by chi's RealIP middleware upstream.
func Requester(r *http.Request) string {
	if user, ok := UserFromContext(r.Context()); ok && user.ID != "" {
		return user.ID
	}
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
