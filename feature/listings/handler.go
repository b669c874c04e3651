package listings

import (
	"errors"

	"listing-sync/core/logger"
	"listing-sync/feature/listings/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for listing sync.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the listings routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/listings")
	group.Post("/sync", h.HandleSync)
	group.Get("/runs", h.HandleRuns)
	group.Get("/runs/:id", h.HandleRun)
	group.Get("/audit", h.HandleAudit)
	group.Get("/schema", h.HandleSchema)
}

// HandleSync runs a sync pass and waits for it.
// @Summary Run Sync Pass
// @Description Reconciles the CRM with the site. A pass already running is joined instead of starting a second one.
// @Tags listings
// @Produce json
// @Param dry_run query boolean false "Decide every record without writing"
// @Success 200 {object} models.SyncRun "Finished run"
// @Failure 500 {object} map[string]interface{} "Failed run"
// @Router /listings/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	dryRun := c.QueryBool("dry_run", false)

	run, err := h.service.Sync(c.UserContext(), models.TriggerHTTP, dryRun)
	if err != nil {
		l.Error("Sync pass failed", zap.String("run_id", run.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
			"run":   run,
		})
	}
	return c.JSON(run)
}

// HandleRuns lists recent sync runs.
// @Summary List Sync Runs
// @Description Returns the most recent sync runs, newest first.
// @Tags listings
// @Produce json
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} models.SyncRun "Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /listings/runs [get]
func (h *Handler) HandleRuns(c *fiber.Ctx) error {
	runs, err := h.service.Runs(c.UserContext(), c.QueryInt("limit", 20))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list sync runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleRun returns one sync run.
// @Summary Get Sync Run
// @Description Returns one run. Recent runs include the per-record outcomes.
// @Tags listings
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} models.SyncRun "Run"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /listings/runs/{id} [get]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	run, err := h.service.Run(c.UserContext(), c.Params("id"))
	if errors.Is(err, ErrRunNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(run)
}

// HandleAudit matches unlinked records without changing anything.
// @Summary Audit Matching
// @Description Reports which CRM records would be linked to which unlinked site records.
// @Tags listings
// @Produce json
// @Success 200 {object} reconcile.AuditReport "Audit Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /listings/audit [get]
func (h *Handler) HandleAudit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting matching audit")

	report, err := h.service.Audit(c.UserContext())
	if err != nil {
		l.Error("Audit failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// HandleSchema checks the sync tables.
// @Summary Check Sync Tables
// @Description Lists columns missing from the snapshot and run history tables.
// @Tags listings
// @Produce json
// @Success 200 {object} map[string]interface{} "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /listings/schema [get]
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	missing, err := h.service.CheckSchema()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	status := "ok"
	if len(missing) > 0 {
		status = "mismatch"
	}
	return c.JSON(fiber.Map{"status": status, "missing": missing})
}
