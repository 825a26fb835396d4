package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimHelpersWithToken(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		c.Locals("user", &jwt.Token{Claims: jwt.MapClaims{
			"sub":      "google:123",
			"email":    "x@y.com",
			"verified": true,
			"provider": "google.com",
		}})

		sub, err := Subject(c)
		require.NoError(t, err)
		assert.Equal(t, "google:123", sub)
		assert.Equal(t, "x@y.com", Email(c))
		assert.True(t, Verified(c))
		assert.Equal(t, "google.com", Provider(c))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestClaimHelpersWithoutToken(t *testing.T) {
	app := fiber.New()
	app.Get("/x", func(c *fiber.Ctx) error {
		_, err := Subject(c)
		assert.ErrorIs(t, err, ErrNoToken)
		assert.Empty(t, Email(c))
		assert.False(t, Verified(c))
		assert.Empty(t, Provider(c))
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
