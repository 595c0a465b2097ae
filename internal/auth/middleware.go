package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sakif/snippet-manager/internal/apperror"
)

// TokenHeader is the request header that carries the bearer token.
// "Authorization: Bearer <token>" is accepted as a fallback.
const TokenHeader = "X-Auth-Token"

const (
	msgNoToken      = "No token, authorization denied"
	msgInvalidToken = "Token is not valid"
)

// Identity is the authenticated caller derived from a verified token.
type Identity struct {
	UserID string
}

// contextKey is an unexported type so no other package can read or shadow
// the identity stored in a request context.
type contextKey string

const identityKey contextKey = "identity"

// Authenticate reads the token from r and verifies it.
//
// A request with no token yields apperror.ErrUnauthenticated; a token that
// fails verification yields apperror.ErrInvalidToken. The two are distinct
// so callers can tell "who are you?" from "nice try".
func Authenticate(r *http.Request, tokens *TokenService) (Identity, error) {
	raw := tokenFromRequest(r)
	if raw == "" {
		return Identity{}, apperror.Unauthenticated(msgNoToken)
	}

	userID, err := tokens.Validate(raw)
	if err != nil {
		return Identity{}, apperror.InvalidToken(msgInvalidToken)
	}
	return Identity{UserID: userID}, nil
}

// RequireAuth rejects requests without a valid token with 401 and stores the
// verified identity in the request context otherwise.
func RequireAuth(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := Authenticate(r, tokens)
			if err != nil {
				logger.Debug("authentication rejected",
					slog.String("path", r.URL.Path),
					slog.String("reason", err.Error()),
				)
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// OptionalAuth attaches the identity when a valid token is present and lets
// the request through as anonymous otherwise. An invalid or expired token is
// not an error on these routes.
func OptionalAuth(tokens *TokenService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := Authenticate(r, tokens)
			switch {
			case err == nil:
				r = r.WithContext(WithIdentity(r.Context(), id))
			case errors.Is(err, apperror.ErrInvalidToken):
				logger.Debug("invalid token on optional-auth route, continuing anonymously",
					slog.String("path", r.URL.Path),
				)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext returns the verified identity, or false for anonymous
// requests.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// UserIDFromContext is a shorthand for IdentityFromContext(ctx).UserID.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := IdentityFromContext(ctx)
	return id.UserID, ok
}

func tokenFromRequest(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(TokenHeader)); v != "" {
		return v
	}
	h := r.Header.Get("Authorization")
	if len(h) > len("Bearer ") && strings.EqualFold(h[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	return ""
}

func writeAuthError(w http.ResponseWriter, err error) {
	kind := "invalid_token"
	if errors.Is(err, apperror.ErrUnauthenticated) {
		kind = "unauthenticated"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   kind,
		"message": err.Error(),
	})
}
