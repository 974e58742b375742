package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"pairchat/backend/internal/chatcore"
)

type enterQueueRequest struct {
	DisplayName string `json:"display_name"`
}

// EnterQueue pairs the caller with the longest-waiting user, or reports
// their queue position.
func (h *Handler) EnterQueue(c *gin.Context) {
	var req enterQueueRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	res, err := h.Core.EnterQueue(c.Request.Context(), req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}

	if res.Status == chatcore.StatusMatched {
		c.JSON(http.StatusOK, gin.H{
			"status":    res.Status,
			"client_id": res.Handle,
			"room_id":   res.RoomID,
			"partner":   gin.H{"user_id": res.Partner.ID, "display_name": res.Partner.Name()},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":       res.Status,
		"client_id":    res.Handle,
		"position":     res.Position,
		"queue_length": res.QueueLength,
	})
}

type joinRoomRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// JoinRoom admits the caller into a named room, creating it when absent.
func (h *Handler) JoinRoom(c *gin.Context) {
	var req joinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "display_name is required"})
		return
	}

	res, err := h.Core.JoinRoom(c.Request.Context(), c.Param("room_id"), req.DisplayName)
	if err != nil {
		fail(c, err)
		return
	}

	body := gin.H{
		"status":    res.Status,
		"client_id": res.Handle,
		"room_id":   res.RoomID,
	}
	if res.Partner != nil {
		body["partner"] = gin.H{"user_id": res.Partner.ID, "display_name": res.Partner.Name()}
	}
	c.JSON(http.StatusOK, body)
}

type sendMessageRequest struct {
	Message  string `json:"message" binding:"required"`
	ClientID string `json:"client_id" binding:"required"`
}

// SendMessage relays a message to the caller's partner, fire-and-forget.
func (h *Handler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message and client_id are required"})
		return
	}

	res, err := h.Core.SendMessage(c.Request.Context(), c.Param("room_id"), req.Message, req.ClientID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message_id": res.MessageID,
		"timestamp":  res.Timestamp,
	})
}

type waitRequest struct {
	ClientID string `json:"client_id" binding:"required"`
	Timeout  int    `json:"timeout"`
}

// WaitForMessage long-polls for the next message in the room. A timeout is
// an ordinary 200 response with timeout=true.
func (h *Handler) WaitForMessage(c *gin.Context) {
	var req waitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id is required"})
		return
	}

	timeout := time.Duration(req.Timeout) * time.Second
	res, err := h.Core.WaitForMessage(c.Request.Context(), c.Param("room_id"), req.ClientID, timeout)
	if err != nil {
		fail(c, err)
		return
	}

	if res.TimedOut {
		c.JSON(http.StatusOK, gin.H{
			"timeout": true,
			"message": "No message received within timeout period",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    res.Message.Content,
		"sender":     res.Message.SenderName,
		"system":     res.Message.System,
		"timestamp":  res.Message.Timestamp,
		"message_id": res.Message.MessageID,
	})
}

type leaveRequest struct {
	ClientID string `json:"client_id" binding:"required"`
}

// LeaveChat closes the caller's room and destroys their session.
func (h *Handler) LeaveChat(c *gin.Context) {
	var req leaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "client_id is required"})
		return
	}

	if err := h.Core.LeaveChat(c.Request.Context(), c.Param("room_id"), req.ClientID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully left the chat"})
}

// Status reports queue and room load.
func (h *Handler) Status(c *gin.Context) {
	st := h.Core.Status()
	c.JSON(http.StatusOK, gin.H{
		"queue_length": st.QueueLength,
		"active_rooms": st.ActiveRooms,
	})
}
