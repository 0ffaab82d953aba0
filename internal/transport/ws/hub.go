package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Hub fans outbound frames to the connections of each room. It implements
// room.Broadcaster: the room authorities hand it events after persisting.
type Hub struct {
	// roomID -> connID -> conn
	conns map[string]map[string]*Conn

	mu sync.RWMutex

	register   chan *Conn
	unregister chan *Conn
	outbound   chan *delivery

	log *slog.Logger
}

// Conn represents one live WebSocket connection. UserID is bound by the
// router when the join frame arrives and is only touched from the read pump.
type Conn struct {
	ID     string
	RoomID string
	UserID string
	Send   chan []byte
}

type delivery struct {
	roomID string
	connID string // empty means room-wide broadcast
	msg    *Message
}

func NewHub(log *slog.Logger) *Hub {
	h := &Hub{
		conns:      make(map[string]map[string]*Conn),
		register:   make(chan *Conn),
		unregister: make(chan *Conn),
		outbound:   make(chan *delivery, 256),
		log:        log,
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.conns[conn.RoomID] == nil {
				h.conns[conn.RoomID] = make(map[string]*Conn)
			}
			h.conns[conn.RoomID][conn.ID] = conn
			h.mu.Unlock()
			h.log.Debug("connection registered", "room", conn.RoomID, "conn", conn.ID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.conns[conn.RoomID]; ok {
				if existing, ok := room[conn.ID]; ok && existing == conn {
					delete(room, conn.ID)
					close(conn.Send)
					if len(room) == 0 {
						delete(h.conns, conn.RoomID)
					}
				}
			}
			h.mu.Unlock()
			h.log.Debug("connection unregistered", "room", conn.RoomID, "conn", conn.ID)

		case d := <-h.outbound:
			data, err := json.Marshal(d.msg)
			if err != nil {
				h.log.Error("marshal outbound frame", "type", d.msg.Type, "error", err)
				continue
			}
			h.mu.RLock()
			if room, ok := h.conns[d.roomID]; ok {
				if d.connID != "" {
					if conn, ok := room[d.connID]; ok {
						h.send(conn, data)
					}
				} else {
					for _, conn := range room {
						h.send(conn, data)
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// send drops the frame if the connection's buffer is full; a stalled client
// must not stall the room.
func (h *Hub) send(conn *Conn, data []byte) {
	select {
	case conn.Send <- data:
	default:
		h.log.Warn("send buffer full, dropping frame", "room", conn.RoomID, "conn", conn.ID)
	}
}

// Register adds a connection.
func (h *Hub) Register(conn *Conn) {
	h.register <- conn
}

// Unregister removes a connection.
func (h *Hub) Unregister(conn *Conn) {
	h.unregister <- conn
}

// ToRoom broadcasts an event to every connection in the room (implements
// room.Broadcaster).
func (h *Hub) ToRoom(roomID, event string, payload any) {
	h.enqueue(roomID, "", event, payload)
}

// ToConn sends an event to a single connection (implements room.Broadcaster).
func (h *Hub) ToConn(roomID, connID, event string, payload any) {
	h.enqueue(roomID, connID, event, payload)
}

func (h *Hub) enqueue(roomID, connID, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("marshal payload", "type", event, "error", err)
		return
	}
	h.outbound <- &delivery{
		roomID: roomID,
		connID: connID,
		msg:    &Message{Type: MessageType(event), Payload: data},
	}
}
