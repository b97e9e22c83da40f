package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ipsfulano/clinical-records-api/internal/core/domain"
)

// DefaultTokenTTL keeps sessions alive for 30 days; expiry is the only
// invalidation mechanism, there is no revocation list.
const DefaultTokenTTL = 30 * 24 * time.Hour

// TokenService issues and verifies the signed session tokens carried as
// bearer credentials. Tokens encode only the user id and an expiry; the
// role is deliberately NOT embedded so that role changes take effect
// without re-login (the RBAC middleware re-reads it per request).
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given user id.
func (s *TokenService) Issue(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify parses and validates a token and returns the encoded user id.
// Malformed, tampered and expired tokens all collapse to ErrInvalidToken.
func (s *TokenService) Verify(token string) (int64, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return 0, domain.ErrInvalidToken
	}

	id, ok := claims["user_id"].(float64)
	if !ok {
		return 0, domain.ErrInvalidToken
	}
	return int64(id), nil
}
