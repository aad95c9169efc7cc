package events

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 5 * time.Second,
	// the gateway fronts its own console; cross-origin checks belong to
	// the reverse proxy in front of it
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades the connection and subscribes it to the hub. The feed
// is push-only: anything the console sends is drained and dropped.
func WSHandler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}

		sub := hub.AttachWS(ws)
		defer hub.Detach(sub)
		log.Printf("[events] console attached: %s", ws.RemoteAddr())

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				log.Printf("[events] console detached: %s", ws.RemoteAddr())
				return
			}
		}
	}
}
