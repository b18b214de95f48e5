package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/quotemate/gateway/internal/core/domain"
)

// TokenMinter issues the opaque session marker written on login. The token
// ties a session to a user id and an issue time; the gateway never relies
// on it for authorisation.
type TokenMinter struct {
	secret []byte
	now    func() time.Time
}

func NewTokenMinter(secret string) *TokenMinter {
	return &TokenMinter{secret: []byte(secret), now: time.Now}
}

// Mint signs a token for user.
func (m *TokenMinter) Mint(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  m.now().Unix(),
		"jti":  uuid.NewString(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}
