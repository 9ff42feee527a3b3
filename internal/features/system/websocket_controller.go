package system

import (
	"chartcraft/internal/events"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WebSocketController streams chart events of one dataset to the client.
type WebSocketController struct {
	Hub    *events.Hub
	Logger *zap.Logger
}

func NewWebSocketController(hub *events.Hub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{Hub: hub, Logger: logger}
}

func (h *WebSocketController) RequireUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	datasetID := c.Params("id")
	updates, cancel := h.Hub.Subscribe(datasetID)
	defer cancel()

	h.Logger.Debug("Websocket subscribed", zap.String("datasetId", datasetID))

	// Incoming messages are ignored; reading detects the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case e, ok := <-updates:
			if !ok {
				return
			}
			if err := c.WriteJSON(e); err != nil {
				h.Logger.Debug("Websocket write failed", zap.String("datasetId", datasetID), zap.Error(err))
				return
			}
		}
	}
}
