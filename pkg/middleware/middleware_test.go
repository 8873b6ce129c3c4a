package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

const testSecret = "test-secret"

func newProtectedApp(handlers ...fiber.Handler) *fiber.App {
	config.AppConfig.JWTSecret = testSecret
	app := fiber.New()
	chain := append([]fiber.Handler{JWTProtected()}, handlers...)
	chain = append(chain, func(c *fiber.Ctx) error {
		id, claims, err := utils.CurrentUser(c)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"id": id, "accountType": claims.AccountType})
	})
	app.Get("/private", chain...)
	return app
}

func bearer(t *testing.T, accountType string) string {
	t.Helper()
	token, err := utils.GenerateAccessToken(testSecret, uuid.New(), "u@example.com", accountType, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestJWTProtected(t *testing.T) {
	app := newProtectedApp()

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", header: "", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", want: fiber.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", want: fiber.StatusUnauthorized},
		{name: "valid token", header: bearer(t, utils.AccountParent), want: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestJWTProtectedRejectsOtherSecret(t *testing.T) {
	app := newProtectedApp()
	token, err := utils.GenerateAccessToken("other-secret", uuid.New(), "u@example.com", utils.AccountParent, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireAccountType(t *testing.T) {
	app := newProtectedApp(RequireAccountType(utils.AccountBusiness))

	for accountType, want := range map[string]int{
		utils.AccountBusiness: fiber.StatusOK,
		utils.AccountAdmin:    fiber.StatusOK,
		utils.AccountParent:   fiber.StatusForbidden,
		utils.AccountTeacher:  fiber.StatusForbidden,
	} {
		req := httptest.NewRequest("GET", "/private", nil)
		req.Header.Set("Authorization", bearer(t, accountType))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, accountType)
	}
}

func TestRateLimit(t *testing.T) {
	app := fiber.New()
	app.Get("/limited", RateLimit(2), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, codes)
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	app := fiber.New()
	app.Use(RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusAccepted) })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "nope") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
}
