package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pairchat/backend/internal/chatcore"
	"pairchat/backend/internal/notify"
)

// Handler adapts HTTP requests to the chat core. It contains no business
// logic; every decision lives in chatcore.
type Handler struct {
	Core     *chatcore.Service
	Hub      *notify.Hub
	Telegram *notify.TelegramSender
}

// NewHandler wires the transport adapter. hub and telegram may be nil when
// the corresponding notification channel is disabled.
func NewHandler(core *chatcore.Service, hub *notify.Hub, telegram *notify.TelegramSender) *Handler {
	return &Handler{Core: core, Hub: hub, Telegram: telegram}
}

// errStatus maps recoverable core errors to HTTP status codes.
func errStatus(err error) int {
	switch {
	case errors.Is(err, chatcore.ErrSessionNotFound),
		errors.Is(err, chatcore.ErrRoomNotFound),
		errors.Is(err, chatcore.ErrPartnerMissing):
		return http.StatusNotFound
	case errors.Is(err, chatcore.ErrRoomInactive),
		errors.Is(err, chatcore.ErrRoomFull),
		errors.Is(err, chatcore.ErrNotInRoom),
		errors.Is(err, chatcore.ErrAlreadyInRoom),
		errors.Is(err, chatcore.ErrWaitReplaced):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, err error) {
	c.JSON(errStatus(err), gin.H{"error": err.Error()})
}
