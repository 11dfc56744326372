package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foxxcyber/backoffice/internal/config"
)

const testSecret = "test-secret"

func testApp() *fiber.App {
	app := fiber.New()
	app.Post("/rebuild", ServiceAuthRequired(&config.Config{JWTSecret: testSecret}), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": GetService(c)})
	})
	return app
}

func signToken(t *testing.T, secret, service string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ServiceClaims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestServiceAuthRequired(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest(http.MethodPost, "/rebuild", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "scheduler"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServiceAuthMissingHeader(t *testing.T) {
	app := testApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/rebuild", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServiceAuthBadToken(t *testing.T) {
	app := testApp()

	req := httptest.NewRequest(http.MethodPost, "/rebuild", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong-secret", "scheduler"))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodPost, "/rebuild", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServiceAuthExpiredToken(t *testing.T) {
	app := testApp()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ServiceClaims{
		Service: "scheduler",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/rebuild", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
