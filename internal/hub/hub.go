// Package hub provides connection management for narrative watch clients.
package hub

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrBufferFull indicates a connection's send buffer is full.
var ErrBufferFull = errors.New("connection buffer full")

// Connection represents a single WebSocket connection watching one campaign.
type Connection struct {
	ID         string
	CampaignID string
	Conn       *websocket.Conn
	Send       chan []byte
}

// Hub manages all watch connections, indexed by campaign.
type Hub struct {
	// Connections indexed by connection ID
	connections map[string]*Connection

	// Campaigns maps campaign_id to set of connection IDs
	campaigns map[string]map[string]bool

	// Channels for registration/unregistration
	register   chan *Connection
	unregister chan *Connection

	// Broadcast channel for sending to the watchers of one campaign
	broadcast chan *campaignMessage

	mu sync.RWMutex
}

type campaignMessage struct {
	CampaignID string
	Data       []byte
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		connections: make(map[string]*Connection),
		campaigns:   make(map[string]map[string]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *campaignMessage, 256),
	}
}

// Run starts the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn.ID] = conn
			if h.campaigns[conn.CampaignID] == nil {
				h.campaigns[conn.CampaignID] = make(map[string]bool)
			}
			h.campaigns[conn.CampaignID][conn.ID] = true
			h.mu.Unlock()
			log.Printf("Watch connection registered: %s (campaign: %s)", conn.ID, conn.CampaignID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[conn.ID]; ok {
				delete(h.connections, conn.ID)
				if h.campaigns[conn.CampaignID] != nil {
					delete(h.campaigns[conn.CampaignID], conn.ID)
					if len(h.campaigns[conn.CampaignID]) == 0 {
						delete(h.campaigns, conn.CampaignID)
					}
				}
				close(conn.Send)
			}
			h.mu.Unlock()
			log.Printf("Watch connection unregistered: %s", conn.ID)

		case msg := <-h.broadcast:
			h.mu.RLock()
			if connIDs, ok := h.campaigns[msg.CampaignID]; ok {
				for connID := range connIDs {
					if conn, exists := h.connections[connID]; exists {
						select {
						case conn.Send <- msg.Data:
						default:
							// Buffer full, close the connection
							log.Printf("Connection %s buffer full, closing", connID)
							go h.Unregister(conn)
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// NewConnection creates a connection bound to a campaign. Register it to
// start receiving broadcasts.
func (h *Hub) NewConnection(ws *websocket.Conn, campaignID string) *Connection {
	return &Connection{
		ID:         uuid.New().String(),
		CampaignID: campaignID,
		Conn:       ws,
		Send:       make(chan []byte, 256),
	}
}

// Register registers a connection with the hub.
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister unregisters a connection from the hub.
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Broadcast sends a message to all watchers of a campaign.
func (h *Hub) Broadcast(campaignID string, data []byte) {
	h.broadcast <- &campaignMessage{
		CampaignID: campaignID,
		Data:       data,
	}
}

// BroadcastJSON sends a JSON message to all watchers of a campaign.
func (h *Hub) BroadcastJSON(campaignID string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	h.Broadcast(campaignID, data)
	return nil
}

// WatchedCampaigns returns the campaigns that currently have watchers.
func (h *Hub) WatchedCampaigns() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	ids := make([]string, 0, len(h.campaigns))
	for id := range h.campaigns {
		ids = append(ids, id)
	}
	return ids
}

// ConnectionCount returns the number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}
