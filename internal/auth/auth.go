// Package auth issues and verifies admin session tokens. Identity lives
// entirely here; the core workflows only ever see an "is admin" capability on
// the request context.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type contextKey struct{}

var adminKey contextKey

// Service signs and validates admin JWTs.
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService builds a token service with a 12 hour session lifetime.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), ttl: 12 * time.Hour}
}

// GenerateToken issues a signed admin session token.
func (s *Service) GenerateToken() (string, error) {
	claims := jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken checks the signature, expiry and admin role claim.
func (s *Service) ValidateToken(tokenString string) error {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return fmt.Errorf("invalid claims")
	}
	if role, _ := claims["role"].(string); role != "admin" {
		return fmt.Errorf("not an admin token")
	}
	return nil
}

// Middleware rejects requests without a valid Bearer token and marks the
// request context with the admin capability.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "missing Authorization header", http.StatusUnauthorized)
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			http.Error(w, "invalid Authorization header format", http.StatusUnauthorized)
			return
		}
		if err := s.ValidateToken(parts[1]); err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), adminKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// IsAdmin reports whether the request passed the admin middleware.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(adminKey).(bool)
	return v
}
