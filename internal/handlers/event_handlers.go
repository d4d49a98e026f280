package handlers

import (
	"io"
	"time"

	"tap2serve_backend/internal/notifier"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// keepAliveInterval is how often an idle SSE stream emits a comment so
// intermediaries do not drop the connection.
const keepAliveInterval = 25 * time.Second

// EventHandler streams hub events to staff dashboards over SSE.
type EventHandler struct {
	hub *notifier.Hub
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(hub *notifier.Hub) *EventHandler {
	return &EventHandler{hub: hub}
}

// Stream subscribes the caller to their restaurant's event room and forwards
// events until the client disconnects. The room is taken from the token, so a
// subscriber can never observe another tenant's events.
func (h *EventHandler) Stream(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	sub := h.hub.Subscribe(utils.Int64ToStr(restaurantID))
	if sub == nil {
		c.JSON(503, gin.H{"error": "Event stream is shutting down"})
		return
	}
	defer sub.Cancel()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, open := <-sub.C:
			if !open {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-keepAlive.C:
			c.SSEvent("keep_alive", gin.H{"ts": time.Now().Unix()})
			return true
		case <-clientGone:
			return false
		}
	})
}
