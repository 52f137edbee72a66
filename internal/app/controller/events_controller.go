package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/salgsflyt/salgsflyt-backend/internal/errors"
	"github.com/salgsflyt/salgsflyt-backend/internal/middleware"
	ws "github.com/salgsflyt/salgsflyt-backend/internal/websocket"
)

// NewUpgrader builds the websocket upgrader with an origin allowlist
func NewUpgrader(allowedOrigins []string) websocket.Upgrader {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return allowed[r.Header.Get("Origin")]
		},
	}
}

// EventsController streams pipeline events to the frontend
type EventsController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewEventsController(hub *ws.Hub, upgrader websocket.Upgrader) *EventsController {
	return &EventsController{
		hub:      hub,
		upgrader: upgrader,
	}
}

// Stream opens the websocket connection for the caller's workspace
// GET /api/v1/events/ws
// Token kommer som query-parameter; den logges ikke
func (ctrl *EventsController) Stream(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		errors.Unauthorized(c, "Innlogging kreves")
		return
	}
	workspaceID, ok := middleware.GetWorkspaceID(c)
	if !ok {
		errors.Unauthorized(c, "Innlogging kreves")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := &ws.Client{
		Hub:         ctrl.hub,
		Conn:        &ws.Conn{Conn: conn},
		UserID:      userID,
		WorkspaceID: workspaceID,
		Send:        make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id":      userID,
		"workspace_id": workspaceID,
	})
}
