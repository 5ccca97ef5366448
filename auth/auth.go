package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of the identity provider's access-token claims the
// front-end relies on.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// CreateToken signs an HS256 access token for userID. The hosted provider
// mints real tokens; this is used by local fakes and tests.
func CreateToken(secret, issuer, audience, userID, email string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("auth: JWT secret not set")
	}
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  "authenticated",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken validates signature and expiry and returns the claims.
func VerifyToken(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret not set")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// ParseClaims reads claims without verifying the signature. The session
// store uses it to learn the expiry of tokens handed out by the provider.
func ParseClaims(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("auth: parse token: %w", err)
	}
	return claims, nil
}
