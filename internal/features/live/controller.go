package live

import (
	"log"

	"github.com/gofiber/contrib/websocket"
)

type LiveController struct {
	Hub *Hub
}

func NewLiveController(hub *Hub) *LiveController {
	return &LiveController{Hub: hub}
}

// HandleWebSocket keeps the connection registered until the client goes away.
// Inbound frames are only read to detect the close.
func (h *LiveController) HandleWebSocket(c *websocket.Conn) {
	h.Hub.register(c)
	defer h.Hub.unregister(c)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			log.Println("read:", err)
			break
		}
	}
}
