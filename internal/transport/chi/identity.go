package chi

import (
	"context"
	"net/http"
	"strings"

	logpkg "github.com/kailas-cloud/boardsearch/internal/logger"
)

// UserHeader carries the caller's user ID when no tokens are configured and an
// authenticating proxy sits in front of the service.
const UserHeader = "X-User-ID"

// exemptPaths are routes that bypass identity resolution (health, metrics).
var exemptPaths = map[string]struct{}{
	"/health":  {},
	"/metrics": {},
}

type userKey struct{}

// ContextWithUser stores the caller's user ID in the context.
func ContextWithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

// UserFromContext returns the caller's user ID, or "" if none was resolved.
func UserFromContext(ctx context.Context) string {
	u, _ := ctx.Value(userKey{}).(string)
	return u
}

// IdentityMiddleware resolves the caller's user ID.
// With tokens configured, a Bearer token is mapped to its user ID.
// With no tokens, the UserHeader set by the upstream proxy is trusted.
func IdentityMiddleware(tokens map[string]string) func(http.Handler) http.Handler {
	valid := make(map[string]string, len(tokens))
	for token, user := range tokens {
		if token != "" && user != "" {
			valid[token] = user
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := exemptPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			user, msg := resolveUser(r, valid)
			if user == "" {
				writeError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := logpkg.With(ContextWithUser(r.Context(), user), logpkg.User(user))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolveUser(r *http.Request, tokens map[string]string) (user, msg string) {
	if len(tokens) == 0 {
		user = strings.TrimSpace(r.Header.Get(UserHeader))
		if user == "" {
			return "", "missing " + UserHeader + " header"
		}
		return user, ""
	}

	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", "missing authorization header"
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", "authorization header must use Bearer scheme"
	}

	user, ok := tokens[auth[len(bearerPrefix):]]
	if !ok {
		return "", "invalid token"
	}
	return user, ""
}
