package websocket

import (
	"encoding/json"
	"sync"

	"github.com/salgsflyt/salgsflyt-backend/pkg/logger"
)

// Client er én tilkoblet nettleser-sesjon i et arbeidsområde
type Client struct {
	Hub         *Hub
	Conn        *Conn
	UserID      uint
	WorkspaceID uint
	Send        chan []byte
}

// Hub ruter pipeline-hendelser til alle tilkoblede klienter i samme
// arbeidsområde, slik at kanban-tavlen oppdateres uten refresh
type Hub struct {
	// WorkspaceID -> klienter (flere faner/enheter per bruker støttes)
	workspaces map[uint][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *workspaceMessage

	mu sync.RWMutex
}

type workspaceMessage struct {
	WorkspaceID uint
	Payload     []byte
}

func NewHub() *Hub {
	return &Hub{
		workspaces: make(map[uint][]*Client),
		register:   make(chan *Client, 64),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan *workspaceMessage, 256),
	}
}

// Run owns all map mutation; call it once in its own goroutine
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.workspaces[client.WorkspaceID] = append(h.workspaces[client.WorkspaceID], client)
			h.mu.Unlock()
			logger.Info("WebSocket client registered", map[string]interface{}{
				"user_id":      client.UserID,
				"workspace_id": client.WorkspaceID,
			})

		case client := <-h.unregister:
			h.mu.Lock()
			removed := false
			if clients, ok := h.workspaces[client.WorkspaceID]; ok {
				remaining := make([]*Client, 0, len(clients))
				for _, c := range clients {
					if c != client {
						remaining = append(remaining, c)
					} else {
						removed = true
					}
				}
				if len(remaining) == 0 {
					delete(h.workspaces, client.WorkspaceID)
				} else {
					h.workspaces[client.WorkspaceID] = remaining
				}
			}
			if removed {
				// Guard mot dobbel avregistrering (full buffer + lukket lesing)
				close(client.Send)
			}
			h.mu.Unlock()
			if removed {
				logger.Info("WebSocket client unregistered", map[string]interface{}{
					"user_id":      client.UserID,
					"workspace_id": client.WorkspaceID,
				})
			}

		case message := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.workspaces[message.WorkspaceID] {
				select {
				case client.Send <- message.Payload:
				default:
					// Full sendebuffer; koble klienten fra asynkront
					go h.Unregister(client)
					logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
						"user_id": client.UserID,
					})
				}
			}
			h.mu.RUnlock()
		}
	}
}

// BroadcastToWorkspace sends an event to every client in the workspace.
// Events are best-effort: a full broadcast queue drops the event rather
// than blocking the caller.
func (h *Hub) BroadcastToWorkspace(workspaceID uint, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, nil)
		return
	}

	select {
	case h.broadcast <- &workspaceMessage{WorkspaceID: workspaceID, Payload: payload}:
	default:
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"workspace_id": workspaceID,
		})
	}
}

// Register registers a client with the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ConnectedClients returns the number of clients in a workspace
func (h *Hub) ConnectedClients(workspaceID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.workspaces[workspaceID])
}
