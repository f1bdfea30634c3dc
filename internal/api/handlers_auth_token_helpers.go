package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/cyclekit/internal/security"
)

// IssueToken signs an HS256 bearer token whose subject is customerID. A
// non-positive ttl uses the 30 day default.
func IssueToken(secretKey []byte, customerID string, ttl time.Duration, now time.Time) (string, error) {
	if len(secretKey) == 0 {
		return "", errors.New("secret key is required")
	}
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return "", errors.New("customer id is required")
	}
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	tokenID, err := security.NewTokenID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	claims := authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    tokenIssuer,
			Subject:   customerID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secretKey)
}
