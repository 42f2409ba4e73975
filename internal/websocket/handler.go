package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs attaches a new connection to the hub and runs its pumps. The call
// blocks until the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn, subject string) {
	client := &Client{Hub: hub, Conn: c, Subject: subject, Send: make(chan []byte, 256)}
	client.Hub.register <- client

	go client.writePump()
	client.readPump()
}
