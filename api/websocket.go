package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return isAllowedOrigin(origin)
	},
}

// wsClient pumps events from its Subscription to one WebSocket connection.
type wsClient struct {
	conn         *websocket.Conn
	subscription *Subscription
	broadcaster  *Broadcaster
}

// handleWebSocket upgrades the connection and subscribes it to every
// PC-change/log event the orchestrator emits from here on.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	// Subscribe before the handshake completes, so no event emitted after
	// the client sees the connection open is missed.
	sub := s.broadcaster.Subscribe()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.broadcaster.Unsubscribe(sub)
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := &wsClient{
		conn:         conn,
		subscription: sub,
		broadcaster:  s.broadcaster,
	}

	go client.readPump()
	go client.writePump()
}

// readPump only watches for client-initiated close; this endpoint is
// push-only, so any inbound message is discarded.
func (c *wsClient) readPump() {
	defer func() {
		c.broadcaster.Unsubscribe(c.subscription)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			return
		}
	}
}

// writePump forwards subscription events as JSON frames and keeps the
// connection alive with periodic pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.subscription.Channel:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				log.Printf("websocket write error: %v", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
