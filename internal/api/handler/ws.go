package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten for production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades the connection and attaches it to the notification
// hub for the session named in the Authorization header. The socket is
// notification-only; messages flow through the long-poll endpoints.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	if h.Hub == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "notifications disabled"})
		return
	}

	handle := bearerToken(c)
	if handle == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}
	user, err := h.Core.ResolveHandle(handle)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}
	h.Hub.Attach(user.ID, conn)
}

type bindTelegramRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	ChatID   int64  `json:"chat_id" binding:"required"`
}

// BindTelegram opts the caller's session into Telegram nudges.
func (h *Handler) BindTelegram(c *gin.Context) {
	if h.Telegram == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "telegram notifications disabled"})
		return
	}

	var req bindTelegramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id and chat_id are required"})
		return
	}
	user, err := h.Core.ResolveHandle(req.ClientID)
	if err != nil {
		fail(c, err)
		return
	}

	h.Telegram.Bind(user.ID, req.ChatID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
