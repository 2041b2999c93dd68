package handler

import (
	"encoding/json"
	"errors"

	"pdf-extractor/internal/dto"
	"pdf-extractor/internal/pkg/logger"
	"pdf-extractor/internal/pkg/serverutils"
	"pdf-extractor/internal/service"
	internalWS "pdf-extractor/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type SessionSocketHandler struct {
	service       service.IExtractionService
	hub           *internalWS.Hub
	sessionSecret string
	logger        logger.ILogger
}

func NewSessionSocketHandler(service service.IExtractionService, hub *internalWS.Hub, sessionSecret string, log logger.ILogger) *SessionSocketHandler {
	return &SessionSocketHandler{
		service:       service,
		hub:           hub,
		sessionSecret: sessionSecret,
		logger:        log,
	}
}

// ServeWs upgrades to a websocket that receives every state change of the session.
func (h *SessionSocketHandler) ServeWs(c *fiber.Ctx) error {
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')"))
	}

	sessionID, err := serverutils.ParseSessionToken(h.sessionSecret, tokenStr)
	if err != nil {
		h.logger.Warn("SessionSocketHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	current, err := h.service.GetState(c.UserContext(), sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
		}
		return err
	}
	initial, _ := json.Marshal(dto.StateChangedMessage{Type: service.StateChangedType, State: *current})

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("SessionSocketHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID})
			internalWS.ServeWs(h.hub, conn, sessionID, initial)
			h.logger.Info("SessionSocketHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the websocket route.
func (h *SessionSocketHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
