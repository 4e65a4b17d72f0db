package api

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

const defaultAccessTokenTTL = time.Hour

// IssueAccessToken signs a bearer token in the shape AuthRequired accepts.
// Production tokens come from the identity provider; this serves local
// development and tests.
func IssueAccessToken(secret string, identity services.Identity, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(identity.UserID) == "" {
		return "", errors.New("user id is required")
	}
	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}

	claims := authClaims{
		Email:         identity.Email,
		EmailVerified: identity.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
