package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/bmjaya/printworks/internal/config"
)

// Account types encoded in tokens.
const (
	AccountTypeAdmin    = "admin"
	AccountTypeEmployee = "employee"
)

// Claims is the signed token payload: user id, display name, role, and
// whether the account is an admin or an employee.
type Claims struct {
	UserID      int64  `json:"id"`
	Username    string `json:"username"`
	Name        string `json:"nama,omitempty"`
	Role        string `json:"role"`
	AccountType string `json:"type"`
	jwt.RegisteredClaims
}

// ErrInvalidToken covers malformed, mis-signed, and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

// TokenManager signs and verifies bearer tokens. It is stateless; the key
// comes from configuration.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager from the configured signing key and TTL.
func NewTokenManager(cfg config.Config) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.Auth.Secret),
		ttl:    cfg.Auth.TokenTTL,
	}
}

// Issue signs a token for the given claims with the configured TTL.
func (m *TokenManager) Issue(claims Claims) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning its claims.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
