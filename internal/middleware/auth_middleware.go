package middleware

import (
	"context"
	"crypto/rsa"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Bsouch96/CustomerAccountDeletionRequest/internal/utils"
)

type contextKey string

const (
	ContextKeyPermissions = contextKey("permissions")

	// TokenIssuer identifies the auth service that issues all access tokens.
	TokenIssuer = "ThamcoAuth"
)

// AuthMiddleware validates the Bearer token and stashes the token's
// permission claims in the request context. Missing or invalid tokens get 401.
func AuthMiddleware(pub *rsa.PublicKey) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractAccessToken(r)
			if err != nil {
				utils.RespondError(w, http.StatusUnauthorized, err.Error())
				return
			}

			perms, vErr := validateToken(tokenStr, pub)
			if vErr != nil {
				if errors.Is(vErr, jwt.ErrTokenExpired) {
					utils.RespondError(w, http.StatusUnauthorized, "Token expired", vErr)
					return
				}
				utils.RespondError(w, http.StatusUnauthorized, "Invalid token", vErr)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyPermissions, perms)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route on one permission claim. Runs after
// AuthMiddleware; a token without the claim gets 403.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			perms, ok := r.Context().Value(ContextKeyPermissions).([]string)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "Missing permissions in context")
				return
			}
			for _, p := range perms {
				if p == permission {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.RespondError(w, http.StatusForbidden, "Insufficient permissions")
		})
	}
}

func extractAccessToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return "", errors.New("missing Authorization header")
	}
	return strings.TrimPrefix(h, "Bearer "), nil
}

// validateToken checks the token's signature and standard claims and returns
// the "permissions" claim. Any deviation returns a descriptive error.
func validateToken(tokenString string, publicKey *rsa.PublicKey) ([]string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, errors.New("missing expiration claim")
	}
	if time.Unix(int64(exp), 0).Before(time.Now()) {
		return nil, jwt.ErrTokenExpired
	}

	iss, ok := claims["iss"].(string)
	if !ok {
		return nil, errors.New("missing issuer claim")
	}
	if iss != TokenIssuer {
		return nil, errors.New("invalid token issuer")
	}

	rawPerms, ok := claims["permissions"].([]any)
	if !ok {
		return nil, errors.New("missing permissions claim")
	}
	perms := make([]string, 0, len(rawPerms))
	for _, p := range rawPerms {
		s, ok := p.(string)
		if !ok {
			return nil, errors.New("malformed permissions claim")
		}
		perms = append(perms, s)
	}
	return perms, nil
}
