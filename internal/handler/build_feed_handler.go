package handler

import (
	"pc-autobuild-be/internal/pkg/logger"
	"pc-autobuild-be/internal/pkg/serverutils"
	internalWS "pc-autobuild-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// BuildFeedHandler streams the requester's generated builds over a websocket.
type BuildFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewBuildFeedHandler(hub *internalWS.Hub, log logger.ILogger) *BuildFeedHandler {
	return &BuildFeedHandler{hub: hub, logger: log}
}

func (h *BuildFeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	requesterID := serverutils.RequesterID(c)
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("BuildFeedHandler", "Starting WebSocket session", map[string]interface{}{"requester_id": requesterID})
		internalWS.ServeWs(h.hub, conn, requesterID)
		h.logger.Info("BuildFeedHandler", "WebSocket session ended", map[string]interface{}{"requester_id": requesterID})
	})(c)
}

// RegisterRoutes expects RequesterMiddleware to run before it.
func (h *BuildFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/builds/v1/ws", h.ServeWs)
}
