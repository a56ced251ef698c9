package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/targetcar/user-system/internal/core/domain"
)

// bearerPrefix is the exact prefix callers must send in the Authorization
// header, trailing space included.
const bearerPrefix = "Bearer "

// TokenManager issues and parses the HS256 bearer tokens used across the API.
// The token subject carries the user's email.
type TokenManager struct {
	secret string
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenManager{secret: secret, ttl: ttl}
}

// Generate issues a signed token whose subject is the given email.
func (m *TokenManager) Generate(email string) (string, error) {
	claims := jwt.MapClaims{
		"sub": email,
		"exp": time.Now().Add(m.ttl).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.secret))
}

// SubjectFromHeader extracts the subject email from a raw Authorization
// header value, requiring the exact "Bearer " prefix.
func (m *TokenManager) SubjectFromHeader(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", fmt.Errorf("malformed authorization header: %w", domain.ErrInvalidToken)
	}
	return m.Subject(header[len(bearerPrefix):])
}

// Subject parses a bare token string and returns its subject email.
func (m *TokenManager) Subject(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(m.secret), nil
	})
	if err != nil || !tkn.Valid {
		return "", domain.ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fmt.Errorf("token missing subject: %w", domain.ErrInvalidToken)
	}
	return sub, nil
}
