package handler

import (
	"net/http/httptest"
	"testing"

	"expense-log-be/internal/pkg/logger"
	internalWS "expense-log-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedHandler_RejectsPlainRequests(t *testing.T) {
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	app := fiber.New()

	authCalled := false
	auth := func(c *fiber.Ctx) error {
		authCalled = true
		c.Locals("username", "tester")
		return c.Next()
	}
	NewFeedHandler(hub, logger.NewNopLogger()).RegisterRoutes(app, auth)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ws/feed", nil), -1)
	require.NoError(t, err)

	assert.True(t, authCalled)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}

func TestFeedHandler_AuthRunsFirst(t *testing.T) {
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	app := fiber.New()
	deny := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusUnauthorized) }
	NewFeedHandler(hub, logger.NewNopLogger()).RegisterRoutes(app, deny)

	req := httptest.NewRequest(fiber.MethodGet, "/ws/feed", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
