package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-onboarding/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-onboarding/internal/platform/logger"
	"github.com/yungbote/neurobridge-onboarding/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /sse/stream
// Every open view of a user joins the user's channel and hears
// profiling-completed once the assessment is finalized.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "not authenticated", "code": "unauthorized"}})
		return
	}
	client := h.hub.NewSSEClient(rd.UserID)
	h.hub.AddChannel(client, realtime.UserChannel(rd.UserID))
	h.log.Info("SSEStream open", "user_id", rd.UserID, "client_id", client.ID)

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Debug("SSEStream closed", "user_id", rd.UserID, "client_id", client.ID)
}
