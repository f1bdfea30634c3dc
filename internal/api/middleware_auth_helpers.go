package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingBearerToken = errors.New("missing bearer token")
	errInvalidToken       = errors.New("invalid token")
)

// authenticateRequest returns the customer id carried in the bearer token's
// subject.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	scheme, rawToken, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(rawToken) == "" {
		return "", errMissingBearerToken
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(
		strings.TrimSpace(rawToken),
		claims,
		func(*jwt.Token) (interface{}, error) { return handler.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(handler.now),
	)
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	customerID := strings.TrimSpace(claims.Subject)
	if customerID == "" {
		return "", errInvalidToken
	}
	return customerID, nil
}
