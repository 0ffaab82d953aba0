package ws

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192

	// Inbound frame budget per connection; a client flooding the socket is
	// throttled here, before it can occupy the room's serialization slot.
	inboundRate  = rate.Limit(20)
	inboundBurst = 40
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // room ids are opaque capabilities; no origin gate
	},
}

// Handler upgrades HTTP requests into room connections.
type Handler struct {
	hub    *Hub
	router *Router
	log    *slog.Logger
}

func NewHandler(hub *Hub, router *Router, log *slog.Logger) *Handler {
	return &Handler{hub: hub, router: router, log: log}
}

// RoomWS handles GET /ws/rooms/{roomId}.
func (h *Handler) RoomWS(w http.ResponseWriter, r *http.Request) {
	roomID := mux.Vars(r)["roomId"]
	if roomID == "" {
		http.Error(w, "missing room id", http.StatusBadRequest)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "room", roomID, "error", err)
		return
	}

	conn := &Conn{
		ID:     uuid.NewString(),
		RoomID: roomID,
		Send:   make(chan []byte, 256),
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Conn) {
	defer func() {
		h.router.HandleClose(context.Background(), conn)
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	limiter := rate.NewLimiter(inboundRate, inboundBurst)

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.Warn("websocket read error", "room", conn.RoomID, "conn", conn.ID, "error", err)
			}
			break
		}
		if !limiter.Allow() {
			h.log.Warn("inbound rate exceeded, frame dropped", "room", conn.RoomID, "conn", conn.ID)
			continue
		}
		h.router.Dispatch(context.Background(), conn, data)
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
