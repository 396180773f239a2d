package handler

import (
	"encoding/json"
	"strconv"

	"webnotes-be/internal/dto"
	"webnotes-be/internal/pkg/logger"
	"webnotes-be/internal/pkg/serverutils"
	"webnotes-be/internal/service"
	internalWS "webnotes-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type NotificationHandler struct {
	service service.INotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(svc service.INotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		hub:     hub,
		logger:  log,
	}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/notifications/v1")
	g.Get("", h.GetNotifications)
	g.Put(":id/read", h.MarkRead)
}

// ServeWs upgrades the connection and parks it on the hub. Local-first,
// single user: no handshake auth, the listener binds to localhost.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", nil)
			internalWS.ServeWs(h.hub, conn)
			h.logger.Info("NotificationHandler", "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	notifications, err := h.service.FindRecent(c.Context(), limit)
	if err != nil {
		return err
	}

	res := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		item := dto.NotificationResponse{
			Id:        n.Id,
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if len(n.Metadata) > 0 {
			var meta map[string]interface{}
			if err := json.Unmarshal(n.Metadata, &meta); err == nil {
				item.Metadata = meta
			}
		}
		res = append(res, item)
	}

	return c.JSON(serverutils.SuccessResponse("Success list notifications", res))
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid notification id")
	}

	if err := h.service.MarkRead(c.Context(), id); err != nil {
		return err
	}

	return c.JSON(serverutils.SuccessResponse("Success mark notification read", nil))
}
