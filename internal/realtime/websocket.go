package realtime

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request and runs the connection's read loop until the
// client goes away. identity is the display name from the verified token.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub, identity string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client, err := hub.Connect(uuid.NewString(), identity)
	if err != nil {
		_ = conn.Close()
		return
	}

	go writePump(conn, client)
	readPump(r.Context(), conn, client, hub)
}

func readPump(ctx context.Context, conn *websocket.Conn, client *Connection, hub *Hub) {
	defer func() {
		hub.Disconnect(client.ID)
		_ = conn.Close()
	}()
	conn.SetReadLimit(64 << 10)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		hub.HandleMessage(ctx, client, raw)
	}
}

func writePump(conn *websocket.Conn, client *Connection) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Outbound():
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
