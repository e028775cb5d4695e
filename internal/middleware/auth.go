package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pennybook/backend/internal/apperrors"
	"github.com/spf13/viper"
)

// RequireAuth rejects requests without a valid bearer token and puts the
// caller's user ID into the request context under "userID".
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			apperrors.WriteError(w, r, apperrors.Auth("Authentication required"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperrors.WriteError(w, r, apperrors.Auth("Invalid authorization header format"))
			return
		}

		userID, err := validateToken(parts[1])
		if err != nil {
			apperrors.WriteError(w, r, apperrors.Auth("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth attaches the caller's identity when a bearer token is
// present. Requests without an Authorization header pass through anonymous;
// a token that is present but invalid is still rejected.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			next.ServeHTTP(w, r)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperrors.WriteError(w, r, apperrors.Auth("Invalid authorization header format"))
			return
		}

		userID, err := validateToken(parts[1])
		if err != nil {
			apperrors.WriteError(w, r, apperrors.Auth("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), "userID", userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID returns the authenticated caller's ID from the request context, or
// "" when the request is anonymous.
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value("userID").(string)
	return userID
}

func validateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(viper.GetString("jwt.secret_key")), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("token missing user identity")
	}
	return userID, nil
}
