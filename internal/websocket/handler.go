package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection for sessionID and blocks until it closes.
// A non-empty initial message is written before any relayed state.
func ServeWs(hub *Hub, c *websocket.Conn, sessionID string, initial []byte) {
	client := &Client{Hub: hub, Conn: c, SessionID: sessionID, Send: make(chan []byte, 16)}
	if len(initial) > 0 {
		client.Send <- initial
	}
	client.Hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
