package v1

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/leadpilot/campaignops/internal/hub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced by middleware; the socket accepts all origins.
		return true
	},
}

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
	readTimeout  = 60 * time.Second
)

// GetNarrative returns the canonical execution narrative of a campaign.
// Display surfaces render this value as-is.
func (h *Handler) GetNarrative(c echo.Context) error {
	n, err := h.service.ExecutionNarrative(c.Request().Context(), c.Param("campaign_id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if n == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "campaign not found"})
	}
	return c.JSON(http.StatusOK, n)
}

// WatchNarrative upgrades to a WebSocket and streams narrative updates for a
// campaign. The first frame is the current narrative; further frames arrive
// whenever the poller observes a change.
func (h *Handler) WatchNarrative(c echo.Context) error {
	campaignID := c.Param("campaign_id")

	n, err := h.service.ExecutionNarrative(c.Request().Context(), campaignID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	if n == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "campaign not found"})
	}

	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("Failed to upgrade WebSocket: %v", err)
		return err
	}

	conn := h.hub.NewConnection(ws, campaignID)
	h.hub.Register(conn)

	// Seed the watcher with the current state before any broadcast arrives.
	if err := h.hub.BroadcastJSON(campaignID, n); err != nil {
		log.Printf("WARN: failed to send initial narrative: %v", err)
	}

	go h.writePump(conn)
	go h.readPump(conn)

	return nil
}

// readPump consumes frames until the client goes away. Watchers send
// nothing meaningful; reads exist to observe close and pong frames.
func (h *Handler) readPump(conn *hub.Connection) {
	defer func() {
		h.hub.Unregister(conn)
		conn.Conn.Close()
	}()

	conn.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.Conn.SetPongHandler(func(string) error {
		conn.Conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		if _, _, err := conn.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}

func (h *Handler) writePump(conn *hub.Connection) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		conn.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				// Hub closed the channel
				conn.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Failed to write narrative frame: %v", err)
				return
			}

		case <-ticker.C:
			conn.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
