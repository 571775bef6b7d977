package handler

import (
	"expense-log-be/internal/pkg/logger"
	internalWS "expense-log-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// FeedHandler upgrades authenticated browsers to the live ledger feed.
type FeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewFeedHandler(hub *internalWS.Hub, log logger.ILogger) *FeedHandler {
	return &FeedHandler{hub: hub, logger: log}
}

// Upgrade rejects plain HTTP requests so the websocket handler only sees
// real handshakes.
func (h *FeedHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeWs binds the socket to the username the auth middleware resolved.
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	username, _ := c.Locals("username").(string)
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info(logger.ModuleEvents, "Starting feed session", map[string]interface{}{"username": username})
		internalWS.ServeWs(h.hub, conn, username)
		h.logger.Info(logger.ModuleEvents, "Feed session ended", map[string]interface{}{"username": username})
	})(c)
}

func (h *FeedHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Get("/ws/feed", auth, h.Upgrade, h.ServeWs)
}
