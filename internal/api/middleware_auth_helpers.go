package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/guilhermesealves/functions-site-boost-sub001/internal/services"
)

// authClaims is what the identity provider puts in the bearer token. The
// subject is the user id.
type authClaims struct {
	Email         string `json:"email,omitempty"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

func (handler *Handler) authenticateRequest(c *fiber.Ctx) (services.Identity, error) {
	tokenValue, err := bearerToken(c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return services.Identity{}, err
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(tokenValue, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return handler.secretKey, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(handler.now))
	if err != nil || !token.Valid {
		return services.Identity{}, errors.New("invalid token")
	}

	userID := strings.TrimSpace(claims.Subject)
	if userID == "" {
		return services.Identity{}, errors.New("token has no subject")
	}

	return services.Identity{
		UserID:        userID,
		Email:         strings.ToLower(strings.TrimSpace(claims.Email)),
		EmailVerified: claims.EmailVerified,
	}, nil
}

func bearerToken(header string) (string, error) {
	scheme, value, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.New("missing bearer token")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("missing bearer token")
	}
	return value, nil
}
