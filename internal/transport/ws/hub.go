package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgBatchUploaded  MessageType = "batch_uploaded"
	MsgPreviewReady   MessageType = "preview_ready"
	MsgMergeCommitted MessageType = "merge_committed"
	MsgWorkflowReset  MessageType = "workflow_reset"
	MsgError          MessageType = "error"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages host WebSocket connections, one set per bank
type Hub struct {
	conns map[string]map[*Connection]bool // bankID -> connections

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a host WebSocket connection watching one bank
type Connection struct {
	BankID string
	HostID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast to a bank's watchers
type BroadcastMessage struct {
	BankID  string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.BankID] == nil {
				h.conns[conn.BankID] = make(map[*Connection]bool)
			}
			h.conns[conn.BankID][conn] = true
			h.mu.Unlock()
			log.Printf("Host %s watching bank %s", conn.HostID, conn.BankID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if watchers, ok := h.conns[conn.BankID]; ok {
				if watchers[conn] {
					delete(watchers, conn)
					close(conn.Send)
					log.Printf("Host %s stopped watching bank %s", conn.HostID, conn.BankID)
				}
				if len(watchers) == 0 {
					delete(h.conns, conn.BankID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.conns[msg.BankID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToHost sends a workflow event to every host watching the bank
// (implements service.Broadcaster)
func (h *Hub) BroadcastToHost(bankID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		BankID: bankID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
