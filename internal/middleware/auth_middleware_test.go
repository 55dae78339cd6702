package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fadilmartias/career-coach/internal/config"
	"github.com/fadilmartias/career-coach/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signed(t *testing.T, claims jwt.RegisteredClaims, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func authApp(cfg *config.AuthConfig) *fiber.App {
	app := fiber.New()
	app.Use(Auth(cfg, logger.Nop()))
	app.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(IdentityFrom(c))
	})
	return app
}

func TestAuth(t *testing.T) {
	cfg := &config.AuthConfig{JWTSecret: testSecret, Issuer: "https://id.example.com"}
	app := authApp(cfg)
	valid := jwt.RegisteredClaims{
		Subject:   "user_123",
		Issuer:    "https://id.example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + signed(t, valid, testSecret), fiber.StatusOK},
		{"missing", "", fiber.StatusUnauthorized},
		{"not bearer", "Basic abc", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, valid, "other"), fiber.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwt.RegisteredClaims{
			Subject: "user_123", Issuer: "https://id.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		}, testSecret), fiber.StatusUnauthorized},
		{"wrong issuer", "Bearer " + signed(t, jwt.RegisteredClaims{Subject: "user_123", Issuer: "evil"}, testSecret), fiber.StatusUnauthorized},
		{"no subject", "Bearer " + signed(t, jwt.RegisteredClaims{Issuer: "https://id.example.com"}, testSecret), fiber.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
			if tc.status == fiber.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "user_123", string(body))
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimiter(2, time.Minute))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
