// Package token issues and verifies the signed access tokens used by the API.
package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"flavorfi/internal/domain"
)

// Manager signs and parses HS256 access tokens whose subject is the user id.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// Issue returns a signed token for the given user id.
func (m *Manager) Issue(userID int) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses the token and returns the user id it was issued for. Any
// parse, signature or expiry failure maps to an authentication error.
func (m *Manager) Verify(tokenString string) (int, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return m.secret, nil
		})
	if err != nil || !parsed.Valid {
		return 0, domain.Authenticationf("Invalid or expired token")
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return 0, domain.Authenticationf("Invalid or expired token")
	}

	userID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, domain.Authenticationf("Invalid token identity")
	}
	return userID, nil
}
