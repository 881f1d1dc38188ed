package report

import (
	"fmt"
	"time"

	"go-cityreport/internal/middleware"
	"go-cityreport/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ReportController exposes the dashboard view-models over HTTP: the paginated
// table, the eagerly-loaded map/stats view, the filter view and the edit
// dialog's update path.
type ReportController struct {
	Store  *Store
	Logger *zap.Logger
}

func NewReportController(store *Store, logger *zap.Logger) *ReportController {
	return &ReportController{Store: store, Logger: logger}
}

type updateRequest struct {
	ReportType string        `json:"report_type"`
	Priority   string        `json:"priority"`
	Status     string        `json:"status"`
	Table      *tableOptions `json:"table"`
}

type tableOptions struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	SortBy  string `json:"sort_by"`
	SortDir string `json:"sort_dir"`
}

// List godoc
//
// Loads one page of the reports table. Viewers with the restricted role only
// ever see their own submissions; administrative roles see all rows.
func (c *ReportController) List(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User claims not found"})
	}

	query := PageQuery{
		Page:        ctx.QueryInt("page", 1),
		PerPage:     ctx.QueryInt("perPage", 10),
		SortBy:      ctx.Query("sortBy"),
		SortDir:     ctx.Query("sortDir"),
		SubmitterID: scopedSubmitter(claims),
	}

	if err := c.Store.FetchPage(ctx.Context(), query); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  fiber.StatusBadRequest,
			"message": "Failed to load reports",
		})
	}

	return ctx.JSON(fiber.Map{
		"reports":  c.Store.Page(),
		"total":    c.Store.TotalCount(),
		"page":     query.Page,
		"per_page": query.PerPage,
	})
}

// All godoc
//
// Loads the whole (role-scoped) collection, seeding the map widget and
// statistics. This duplicates rows the table already fetched; the two views
// are independent by design.
func (c *ReportController) All(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User claims not found"})
	}

	if err := c.Store.FetchAll(ctx.Context(), scopedSubmitter(claims)); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  fiber.StatusBadRequest,
			"message": "Failed to load reports",
		})
	}

	return ctx.JSON(fiber.Map{"reports": c.Store.Reports()})
}

// Stats godoc
func (c *ReportController) Stats(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Store.Stats())
}

// MapView godoc
//
// Applies the map filters to the full collection. Pure over store state.
func (c *ReportController) MapView(ctx *fiber.Ctx) error {
	criteria := criteriaFromQuery(ctx)
	return ctx.JSON(fiber.Map{"reports": ApplyFilters(c.Store.Reports(), criteria)})
}

// Update godoc
//
// The edit dialog's submit path: validates the id, issues the partial update,
// then refreshes both the paginated and full views so they observe the write.
// Responses carry the dashboard's flash convention (status 200/400 plus a
// message).
func (c *ReportController) Update(ctx *fiber.Ctx) error {
	claims, ok := middleware.ClaimsFromCtx(ctx)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User claims not found"})
	}

	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  fiber.StatusBadRequest,
			"message": "Report ID is required for update",
		})
	}

	var req updateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  fiber.StatusBadRequest,
			"message": "Invalid request body",
		})
	}

	input := UpdateReportInput{
		ID:         int64(id),
		ReportType: req.ReportType,
		Priority:   req.Priority,
		Status:     req.Status,
	}
	if err := c.Store.UpdateOne(ctx.Context(), input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  fiber.StatusBadRequest,
			"message": err.Error(),
		})
	}

	// Bring both views in sync with the server before answering.
	query := PageQuery{Page: 1, PerPage: 10, SubmitterID: scopedSubmitter(claims)}
	if req.Table != nil {
		query.Page = req.Table.Page
		query.PerPage = req.Table.PerPage
		query.SortBy = req.Table.SortBy
		query.SortDir = req.Table.SortDir
	}
	if err := c.Store.FetchPage(ctx.Context(), query); err != nil {
		c.Logger.Warn("post-update page refresh failed", zap.Error(err))
	}
	if err := c.Store.FetchAll(ctx.Context(), scopedSubmitter(claims)); err != nil {
		c.Logger.Warn("post-update full refresh failed", zap.Error(err))
	}

	return ctx.JSON(fiber.Map{
		"status":  fiber.StatusOK,
		"message": "Report updated successfully",
	})
}

// Export godoc
//
// Exports the filtered collection as a spreadsheet.
func (c *ReportController) Export(ctx *fiber.Ctx) error {
	criteria := criteriaFromQuery(ctx)
	records := ApplyFilters(c.Store.Reports(), criteria)

	data, err := buildWorkbook(records)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	filename := utils.Slugify(fmt.Sprintf("citizen reports %s", time.Now().Format("2006-01-02"))) + ".xlsx"
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	return ctx.Send(data)
}

func criteriaFromQuery(ctx *fiber.Ctx) FilterCriteria {
	criteria := DefaultCriteria()
	if v := ctx.Query("type"); v != "" {
		criteria.Type = v
	}
	if v := ctx.Query("status"); v != "" {
		criteria.Status = v
	}
	if v := ctx.Query("priority"); v != "" {
		criteria.Priority = v
	}
	criteria.FromDate = ctx.Query("from")
	criteria.ToDate = ctx.Query("to")
	return criteria
}

// scopedSubmitter returns the submitter filter for the viewer: restricted
// roles only see their own rows.
func scopedSubmitter(claims *utils.UserClaims) string {
	if claims.Role() == utils.RoleUser {
		return claims.UserID()
	}
	return ""
}
