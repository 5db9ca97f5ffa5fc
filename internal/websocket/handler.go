package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, requesterID string) {
	client := NewClient(hub, conn, requesterID)
	if !hub.add(client) {
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
