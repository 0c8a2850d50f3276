package audit

import (
	"errors"

	"category-manager/core/logger"
	"category-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for category audits.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the audit routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/audit")
	group.Get("/", h.HandleCheck)
	group.Post("/fix", h.HandleFix)
}

// HandleCheck runs the audit.
// @Summary Audit Category Translations
// @Description Checks that every translated category path exists in the remote tree.
// @Tags audit
// @Produce json
// @Param prefix query string false "Only check source paths within this prefix"
// @Success 200 {object} Report
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /audit [get]
func (h *Handler) HandleCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Check(c.UserContext(), c.Query("prefix"))
	if err != nil {
		l.Error("Audit failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleFix creates the missing remote categories.
// @Summary Create Missing Categories
// @Description Creates every missing segment of the translated paths. Runs as a dry run unless dry_run=false.
// @Tags audit
// @Produce json
// @Param prefix query string false "Only fix source paths within this prefix"
// @Param dry_run query bool false "Plan only (default true)"
// @Success 200 {object} FixReport
// @Failure 409 {object} map[string]string "Run in progress"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /audit/fix [post]
func (h *Handler) HandleFix(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	opts := reconcile.Options{DryRun: c.QueryBool("dry_run", true)}
	if rid, ok := c.Locals("ray_id").(string); ok {
		opts.RunID = rid
	}

	l.Info("Fixing missing categories", zap.Bool("dry_run", opts.DryRun))
	fix, err := h.service.Fix(c.UserContext(), c.Query("prefix"), opts)
	if errors.Is(err, reconcile.ErrRunInProgress) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		l.Error("Audit fix failed", zap.Error(err))
		body := fiber.Map{"error": err.Error()}
		if fix != nil {
			body["result"] = fix.Result
		}
		return c.Status(fiber.StatusInternalServerError).JSON(body)
	}
	return c.JSON(fix)
}
