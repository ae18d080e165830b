// handlers/notifications.go
//
// In-app notification fan-out over websockets. Clients subscribe keyed by
// department; the pseudo-department "all" receives every event.
package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AssetEvent is the wire shape of one pushed notification.
type AssetEvent struct {
	Type      string      `json:"type"` // ASSET_CREATED, ASSET_UPDATED, LIFECYCLE_CHANGED, COMPLAINT_CREATED, REPLACEMENT_RECOMMENDED
	AssetID   string      `json:"assetId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type broadcastMessage struct {
	Department string
	Message    []byte
}

type Hub struct {
	clients    map[string]map[*wsClient]bool
	broadcast  chan broadcastMessage
	register   chan *wsClient
	unregister chan *wsClient
	mutex      sync.Mutex
}

type wsClient struct {
	department string
	userName   string
	conn       *websocket.Conn
	send       chan []byte
	hub        *Hub
}

var hub = &Hub{
	clients:    make(map[string]map[*wsClient]bool),
	broadcast:  make(chan broadcastMessage),
	register:   make(chan *wsClient),
	unregister: make(chan *wsClient),
}

// InitNotifications starts the hub goroutine; call once at startup.
func InitNotifications() {
	go hub.run()
}

func (h *Hub) run() {
	log.Println("WebSocket hub started")
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			if _, ok := h.clients[client.department]; !ok {
				h.clients[client.department] = make(map[*wsClient]bool)
			}
			h.clients[client.department][client] = true
			h.mutex.Unlock()

		case client := <-h.unregister:
			h.mutex.Lock()
			if clients, ok := h.clients[client.department]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.department)
					}
				}
			}
			h.mutex.Unlock()

		case bm := <-h.broadcast:
			h.mutex.Lock()
			h.deliverLocked(bm.Department, bm.Message)
			if bm.Department != "all" {
				h.deliverLocked("all", bm.Message)
			}
			h.mutex.Unlock()
		}
	}
}

// deliverLocked pushes to every client of one key; callers hold the mutex.
func (h *Hub) deliverLocked(key string, message []byte) {
	clients, ok := h.clients[key]
	if !ok {
		return
	}
	for client := range clients {
		select {
		case client.send <- message:
		default:
			close(client.send)
			delete(clients, client)
		}
	}
}

// BroadcastAssetEvent fans an event out to the department's subscribers and
// to the "all" firehose. Empty departments go to the firehose only.
func BroadcastAssetEvent(department string, event AssetEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal asset event: %v", err)
		return
	}
	if department == "" {
		department = "all"
	}
	select {
	case hub.broadcast <- broadcastMessage{Department: department, Message: data}:
	default:
		// hub congested, drop rather than block the request path
	}
}

// ServeNotifications upgrades the connection and subscribes the caller to
// its department feed (?department=..., defaulting to "all").
func ServeNotifications(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	if department == "" {
		department = "all"
	}
	userName, _ := r.Context().Value("userName").(string)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{
		department: department,
		userName:   userName,
		conn:       conn,
		send:       make(chan []byte, 64),
		hub:        hub,
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(45 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(1024)

	for {
		// clients don't send messages; this just notices disconnects
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
