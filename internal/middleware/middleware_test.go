package middleware_test

import (
	"encoding/base64"
	"net/http/httptest"
	"testing"

	"katalog/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(zap.New(core)))
	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ok", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 2)

	ok := entries[0]
	assert.Equal(t, zapcore.InfoLevel, ok.Level)
	assert.Equal(t, "request completed", ok.Message)
	fields := ok.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/ok", fields["path"])
	assert.EqualValues(t, fiber.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])

	failed := entries[1]
	assert.Equal(t, zapcore.ErrorLevel, failed.Level)
	assert.EqualValues(t, fiber.StatusServiceUnavailable, failed.ContextMap()["status"])
}

func TestBasicAuth(t *testing.T) {
	hash, err := middleware.HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))

	app := fiber.New()
	app.Use(middleware.BasicAuth("admin", hash, zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("welcome")
	})

	testCases := []struct {
		name           string
		credentials    string
		expectedStatus int
	}{
		{name: "valid", credentials: "admin:s3cret", expectedStatus: fiber.StatusOK},
		{name: "wrong password", credentials: "admin:nope", expectedStatus: fiber.StatusUnauthorized},
		{name: "wrong user", credentials: "root:s3cret", expectedStatus: fiber.StatusUnauthorized},
		{name: "missing", credentials: "", expectedStatus: fiber.StatusUnauthorized},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/", nil)
			if tc.credentials != "" {
				req.Header.Set(fiber.HeaderAuthorization, "Basic "+base64.StdEncoding.EncodeToString([]byte(tc.credentials)))
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			if tc.expectedStatus == fiber.StatusUnauthorized {
				assert.Contains(t, resp.Header.Get(fiber.HeaderWWWAuthenticate), "katalog")
			}
		})
	}
}
