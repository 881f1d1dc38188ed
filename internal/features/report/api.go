package report

import (
	"go-cityreport/internal/config"
	"go-cityreport/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReportApi struct {
	ReportController *ReportController
	Config           *config.Config
}

func NewReportApi(reportController *ReportController, config *config.Config) *ReportApi {
	return &ReportApi{
		ReportController: reportController,
		Config:           config,
	}
}

func (api *ReportApi) Setup(app *fiber.App) {
	group := app.Group("/api/reports", middleware.AuthMiddleware(api.Config.SkipAuth))

	group.Get("/", api.ReportController.List)
	group.Get("/all", api.ReportController.All)
	group.Get("/stats", api.ReportController.Stats)
	group.Get("/map", api.ReportController.MapView)
	group.Get("/export", api.ReportController.Export)
	group.Patch("/:id", api.ReportController.Update)
}
