package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the identity value.
type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated caller. IDToken is the raw bearer token,
// kept so that it can be forwarded verbatim to the upstream API.
type Identity struct {
	UID     string
	IDToken string
}

// NewAuthHandler returns a middleware that enforces bearer-token
// authentication. It validates the token's HS256 signature and expiry,
// reads the subject claim as the caller's uid, and stores the Identity in
// the request context. Missing or invalid tokens get 401 and the chain
// stops there.
func NewAuthHandler(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := authenticate(r, secret)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"認証に失敗しました。"}}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the request
// context. Returns false for requests that did not pass NewAuthHandler.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	ident, ok := ctx.Value(identityKey).(Identity)
	return ident, ok && ident.UID != ""
}

func authenticate(r *http.Request, secret []byte) (Identity, error) {
	raw, err := bearerToken(r)
	if err != nil {
		return Identity{}, err
	}

	token, err := jwt.Parse(raw,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("middleware.authenticate: %w", err)
	}

	uid, err := token.Claims.GetSubject()
	if err != nil || uid == "" {
		return Identity{}, fmt.Errorf("middleware.authenticate: token has no subject")
	}

	return Identity{UID: uid, IDToken: raw}, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("middleware.bearerToken: missing bearer token")
	}
	return strings.TrimPrefix(header, prefix), nil
}
