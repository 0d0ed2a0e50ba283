package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/otakulist/watchlist-api/internal/core/domain"
)

// TokenService issues and verifies stateless HS256 session tokens. Both
// operations are pure functions of the token, the signing key, and the clock;
// nothing is stored server-side.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token carrying the subject, issue time, and expiry.
func (s *TokenService) Issue(username string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token, returning its subject. Failures map to
// the domain token-error taxonomy: empty input, unparsable token, expired
// token, and unrecognised algorithm or signature are reported distinctly.
func (s *TokenService) Verify(token string) (string, error) {
	if token == "" {
		return "", domain.ErrEmptyToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", domain.ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
			return "", domain.ErrUnsupportedToken
		default:
			return "", domain.ErrMalformedToken
		}
	}
	if !parsed.Valid {
		return "", domain.ErrMalformedToken
	}
	return claims.Subject, nil
}
