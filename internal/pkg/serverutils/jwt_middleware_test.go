package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func protectedApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": c.Locals("user_id"),
			"role":    c.Locals("role"),
		})
	})
	return app
}

func getWithToken(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest("GET", "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestJwtMiddlewareAcceptsValidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	token := signedToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    "finance",
	})
	assert.Equal(t, fiber.StatusOK, getWithToken(t, app, token))
}

func TestJwtMiddlewareRejectsMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	assert.Equal(t, fiber.StatusUnauthorized, getWithToken(t, app, ""))
}

func TestJwtMiddlewareRejectsMissingRole(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	token := signedToken(t, jwt.MapClaims{"user_id": uuid.NewString()})
	assert.Equal(t, fiber.StatusUnauthorized, getWithToken(t, app, token))
}

func TestJwtMiddlewareRejectsMissingUserId(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	token := signedToken(t, jwt.MapClaims{"role": "finance"})
	assert.Equal(t, fiber.StatusUnauthorized, getWithToken(t, app, token))
}

func TestJwtMiddlewareRejectsMalformedUserId(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	app := protectedApp()

	token := signedToken(t, jwt.MapClaims{
		"user_id": "not-a-uuid",
		"role":    "finance",
	})
	assert.Equal(t, fiber.StatusUnauthorized, getWithToken(t, app, token))
}

func TestJwtMiddlewareRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "a-different-secret")
	app := protectedApp()

	token := signedToken(t, jwt.MapClaims{
		"user_id": uuid.NewString(),
		"role":    "finance",
	})
	assert.Equal(t, fiber.StatusUnauthorized, getWithToken(t, app, token))
}
