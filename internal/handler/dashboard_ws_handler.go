package handler

import (
	"strings"

	"legalaid-intake-be/internal/pkg/logger"
	"legalaid-intake-be/internal/pkg/serverutils"
	internalWS "legalaid-intake-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// DashboardWsHandler upgrades authenticated requests into dashboard push
// connections.
type DashboardWsHandler struct {
	hub    *internalWS.Hub
	secret []byte
	logger logger.ILogger
}

func NewDashboardWsHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *DashboardWsHandler {
	return &DashboardWsHandler{
		hub:    hub,
		secret: []byte(jwtSecret),
		logger: log,
	}
}

// ServeWs handles websocket requests from the peer. Browsers cannot set
// headers on a websocket handshake, so the token may come as ?token=.
func (h *DashboardWsHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		if authHeader := c.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("Missing token (Query 'token' or Header 'Authorization')", nil))
	}

	userID, err := serverutils.ParseUserID(tokenStr, h.secret)
	if err != nil {
		h.logger.Warn("DashboardWsHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("Invalid token", nil))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("DashboardWsHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
		internalWS.ServeWs(h.hub, conn, userID)
		h.logger.Info("DashboardWsHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
	})(c)
}

func (h *DashboardWsHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
