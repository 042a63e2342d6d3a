package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"boards/internal/config"
)

// ErrInvalidToken is returned by Verify for any token that cannot be
// accepted: bad signature, malformed payload or natural expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims is the payload embedded in every issued bearer token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed bearer tokens. It is constructed
// once from the process configuration; there is no package-level state.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenService builds a token service from the loaded configuration.
// Unknown signing algorithm names are rejected at startup.
func NewTokenService(cfg *config.Config) (*TokenService, error) {
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", cfg.JWTAlgorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("signing algorithm %q is not an HMAC method", cfg.JWTAlgorithm)
	}
	return &TokenService{
		secret: []byte(cfg.JWTSecret),
		method: method,
		ttl:    time.Duration(cfg.JWTTTLMinutes) * time.Minute,
	}, nil
}

// Issue signs a token for the given user, expiring after the configured TTL.
func (s *TokenService) Issue(userID int64, email string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(s.method, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token and returns its claims.
// Every failure mode collapses into ErrInvalidToken; callers translate it to
// an authentication failure.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
