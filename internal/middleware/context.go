package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoToken = errors.New("no token in context")

func tokenClaims(c *fiber.Ctx) (jwt.MapClaims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}
	return claims, nil
}

// Subject extracts the stable subject id from the access-token claims.
func Subject(c *fiber.Ctx) (string, error) {
	claims, err := tokenClaims(c)
	if err != nil {
		return "", err
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}

// Email extracts the email claim; empty when the token carries none.
func Email(c *fiber.Ctx) string {
	claims, err := tokenClaims(c)
	if err != nil {
		return ""
	}
	email, _ := claims["email"].(string)
	return email
}

// Verified extracts the email-verified claim.
func Verified(c *fiber.Ctx) bool {
	claims, err := tokenClaims(c)
	if err != nil {
		return false
	}
	verified, _ := claims["verified"].(bool)
	return verified
}

// Provider extracts the auth-provider claim ("password" or "google.com").
func Provider(c *fiber.Ctx) string {
	claims, err := tokenClaims(c)
	if err != nil {
		return ""
	}
	provider, _ := claims["provider"].(string)
	return provider
}
