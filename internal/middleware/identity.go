package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/brainbolt/backend/internal/models"
)

type ctxKey int

const (
	identityKey ctxKey = iota
	requestIDKey
)

const (
	IdentityHeader    = "X-User-ID"
	maxIdentityLength = 128
)

var errNoIdentity = errors.New("no identity")

// WithIdentity stores identity on ctx; used by handlers' tests.
func WithIdentity(ctx context.Context, identity string) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(identityKey).(string)
	return id, ok && id != ""
}

// Identity resolves the caller's opaque identity. With a secret it
// requires an HS256 bearer token whose "sub" (or "user_id") claim is the
// identity; without one it trusts the X-User-ID header.
func Identity(secret string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var id string
			var err error
			if secret != "" {
				id, err = identityFromToken(r.Header.Get("Authorization"), []byte(secret))
			} else {
				id, err = identityFromHeader(r.Header.Get(IdentityHeader))
			}
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func identityFromHeader(raw string) (string, error) {
	id := strings.TrimSpace(raw)
	if id == "" || len(id) > maxIdentityLength {
		return "", errNoIdentity
	}
	return id, nil
}

func identityFromToken(header string, secret []byte) (string, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return "", errNoIdentity
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return identityFromHeader(sub)
	}
	switch v := claims["user_id"].(type) {
	case string:
		return identityFromHeader(v)
	case float64:
		return identityFromHeader(fmt.Sprintf("%.0f", v))
	}
	return "", errNoIdentity
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
