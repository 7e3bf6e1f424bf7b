package kds

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/SolomonOP/smart-waiter-system-sub000/utils"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected display (kitchen screens, waiter tablets,
// manager dashboard) and pushes each domain event to all of them. It
// satisfies events.Emitter.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]string),
	}
}

// RegisterClient adds a connection to the broadcast set with its role.
func (h *Hub) RegisterClient(conn *websocket.Conn, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = role
}

// UnregisterClient removes and closes a connection.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// ClientCount reports how many displays are listening.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.clients)
}

// Publish sends the event to every connected client. Connections that
// fail the write are dropped from the set.
func (h *Hub) Publish(eventType string, payload interface{}) {
	data, err := json.Marshal(Message{Event: eventType, Data: payload})
	if err != nil {
		utils.ErrorLogger.Errorf("Error marshaling %s message: %v", eventType, err)
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	var dead []*websocket.Conn
	for conn, role := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Errorf("Error sending %s to %s client: %v", eventType, role, err)
			dead = append(dead, conn)
		}
	}
	for _, conn := range dead {
		delete(h.clients, conn)
		conn.Close()
	}
}
