package categories

import (
	"errors"

	"category-manager/core/journal"
	"category-manager/core/logger"
	"category-manager/core/reconcile"
	"category-manager/core/taxonomy"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the category tree and runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the taxonomy and reconcile routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	tax := app.Group("/taxonomy")
	tax.Get("/paths", h.HandlePaths)
	tax.Get("/duplicates", h.HandleDuplicates)
	tax.Post("/rewrite", h.HandleRewrite)

	rec := app.Group("/reconcile")
	rec.Post("/", h.HandleReconcile)
	rec.Get("/runs", h.HandleRuns)
	rec.Get("/runs/:id", h.HandleRun)
}

// HandlePaths lists the remote tree.
// @Summary List Remote Category Paths
// @Description Returns every remote category with its resolved path, served from a short-lived cache.
// @Tags taxonomy
// @Produce json
// @Success 200 {array} PathEntry
// @Failure 503 {object} map[string]string "Remote not configured"
// @Router /taxonomy/paths [get]
func (h *Handler) HandlePaths(c *fiber.Ctx) error {
	paths, err := h.service.Paths(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(paths)
}

// HandleDuplicates lists duplicate remote paths.
// @Summary List Duplicate Remote Paths
// @Tags taxonomy
// @Produce json
// @Success 200 {array} DuplicateGroup
// @Router /taxonomy/duplicates [get]
func (h *Handler) HandleDuplicates(c *fiber.Ctx) error {
	groups, err := h.service.Duplicates(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(groups)
}

// HandleRewrite previews paths through a rule set.
// @Summary Preview Path Rewrite
// @Tags taxonomy
// @Accept json
// @Produce json
// @Param request body RewriteRequest true "Paths and optional rules"
// @Success 200 {array} RewriteResult
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /taxonomy/rewrite [post]
func (h *Handler) HandleRewrite(c *fiber.Ctx) error {
	var req RewriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	out, err := h.service.Rewrite(req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(out)
}

// HandleReconcile runs a reconciliation.
// @Summary Run Reconciliation
// @Description Applies the rules to every enabled phase. Runs as a dry run unless dry_run is false.
// @Tags reconcile
// @Accept json
// @Produce json
// @Param request body ReconcileRequest false "Rules, dry run and skipped phases"
// @Success 200 {object} reconcile.Report
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Run in progress"
// @Router /reconcile [post]
func (h *Handler) HandleReconcile(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ReconcileRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	runID, _ := c.Locals("ray_id").(string)
	report, err := h.service.Reconcile(c.UserContext(), req, runID)
	if err != nil {
		l.Error("Reconciliation failed", zap.Error(err))
		if report != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(report)
		}
		return h.fail(c, err)
	}
	l.Info("Reconciliation finished",
		zap.String("run_id", report.RunID),
		zap.Int("changed", report.Summary.Changed),
		zap.Int("failed", report.Summary.Failed),
	)
	return c.JSON(report)
}

// HandleRuns lists recent runs.
// @Summary List Reconciliation Runs
// @Tags reconcile
// @Produce json
// @Param limit query int false "Maximum runs (default 20)"
// @Success 200 {array} journal.RunRecord
// @Failure 404 {object} map[string]string "Journal disabled"
// @Router /reconcile/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(runs)
}

// HandleRun returns one run.
// @Summary Get Reconciliation Run
// @Tags reconcile
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} RunDetail
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reconcile/runs/{id} [get]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	detail, err := h.service.Run(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(detail)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrRemoteDisabled):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, ErrJournalDisabled), errors.Is(err, journal.ErrRunNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrRunInProgress):
		status = fiber.StatusConflict
	case errors.Is(err, taxonomy.ErrInvalidRule), errors.Is(err, taxonomy.ErrNoRules), errors.Is(err, reconcile.ErrUnknownPhase):
		status = fiber.StatusBadRequest
	}
	if status >= fiber.StatusInternalServerError {
		logger.WithRayID(h.service.logger, c).Error("Request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
