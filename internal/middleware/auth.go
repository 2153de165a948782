package middleware

import (
	"context"
	"net/http"
)

// TokenHeader is the custom header carrying the bearer token. The API
// predates this service and its clients send x-auth-token, not an
// Authorization scheme.
const TokenHeader = "x-auth-token"

type contextKey string

const userIDKey contextKey = "user_id"

// TokenVerifier resolves a token string to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth gates a route group on a valid x-auth-token header and
// injects the verified user id into the request context. A missing
// header is rejected before the verifier is consulted.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(TokenHeader)
			if token == "" {
				http.Error(w, `{"message":"access denied, no token provided"}`, http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				http.Error(w, `{"message":"invalid token"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id attached by RequireAuth,
// or "" when the request did not pass through it.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
