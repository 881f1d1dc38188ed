package live

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type LiveApi struct {
	Controller *LiveController
}

func NewLiveApi(controller *LiveController) *LiveApi {
	return &LiveApi{
		Controller: controller,
	}
}

func (h *LiveApi) Setup(app *fiber.App) {
	app.Get("/ws/reports", websocket.New(h.Controller.HandleWebSocket))
}
