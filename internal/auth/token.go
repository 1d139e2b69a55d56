// Package auth provides JWT issuance/verification and password hashing.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"granaia/internal/models"
)

// Claims are the JWT claims carried by an access token: the user id goes in
// the registered subject, email and remotejid ride alongside.
type Claims struct {
	Email     string `json:"email"`
	Remotejid string `json:"remotejid"`
	jwt.RegisteredClaims
}

// TokenMaker issues and verifies HS256 access tokens. It is constructed once
// from configuration and injected wherever tokens are needed.
type TokenMaker struct {
	secret []byte
	expiry time.Duration
}

// NewTokenMaker creates a TokenMaker with the given signing secret and token
// lifetime.
func NewTokenMaker(secret string, expiry time.Duration) *TokenMaker {
	return &TokenMaker{secret: []byte(secret), expiry: expiry}
}

// Generate issues a signed access token for the user.
func (m *TokenMaker) Generate(user *models.User) (string, error) {
	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	now := time.Now()
	claims := &Claims{
		Email:     email,
		Remotejid: user.Remotejid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "granaia-api",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning its claims. The error never
// says which check failed; callers surface a generic unauthorized response.
func (m *TokenMaker) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
