package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type recurringHandler struct {
	recurringService portssvc.RecurringSvc
}

func newRecurringHandler(recurringService portssvc.RecurringSvc) *recurringHandler {
	return &recurringHandler{recurringService: recurringService}
}

// createTemplate godoc
// @Summary Create a recurring template
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   template body dto.CreateTemplateRequest true "Template"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 500 {object} dto.ErrorResponse "Failed to create template"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/recurring-templates [post]
func (h *recurringHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, err, "Invalid request format")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	tmpl, err := h.recurringService.CreateTemplate(c.Request.Context(), c.Param("workplaceID"), req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create template")
		return
	}

	logger.Info("Recurring template created", slog.String("template_id", tmpl.TemplateID))
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(tmpl))
}

// getTemplate godoc
// @Summary Get a recurring template
// @Tags recurring
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/recurring-templates/{templateID} [get]
func (h *recurringHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tmpl, err := h.recurringService.GetTemplate(c.Request.Context(), c.Param("workplaceID"), c.Param("templateID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve template")
		return
	}
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tmpl))
}

// listTemplates godoc
// @Summary List recurring templates
// @Tags recurring
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   includeInactive query bool false "Include paused templates"
// @Success 200 {array} dto.TemplateResponse
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/recurring-templates [get]
func (h *recurringHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListTemplatesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	templates, err := h.recurringService.ListTemplates(c.Request.Context(), c.Param("workplaceID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list templates")
		return
	}
	c.JSON(http.StatusOK, dto.ToListTemplatesResponse(templates))
}

// pauseTemplate godoc
// @Summary Pause a recurring template
// @Tags recurring
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/recurring-templates/{templateID}/pause [post]
func (h *recurringHandler) pauseTemplate(c *gin.Context) {
	h.setActive(c, false)
}

// resumeTemplate godoc
// @Summary Resume a paused recurring template
// @Description Missed occurrences are caught up on the next run
// @Tags recurring
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   templateID path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} dto.ErrorResponse "Template has ended"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/recurring-templates/{templateID}/resume [post]
func (h *recurringHandler) resumeTemplate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *recurringHandler) setActive(c *gin.Context, active bool) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID, templateID := c.Param("workplaceID"), c.Param("templateID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var (
		tmpl *domain.RecurringTemplate
		err  error
	)
	if active {
		tmpl, err = h.recurringService.ResumeTemplate(c.Request.Context(), workplaceID, templateID, userID)
	} else {
		tmpl, err = h.recurringService.PauseTemplate(c.Request.Context(), workplaceID, templateID, userID)
	}
	if err != nil {
		respondError(c, logger, err, "Failed to update template")
		return
	}

	logger.Info("Recurring template updated", slog.String("template_id", templateID), slog.Bool("active", active))
	c.JSON(http.StatusOK, dto.ToTemplateResponse(tmpl))
}

// runTemplate godoc
// @Summary Run one recurring template
// @Description Posts every due occurrence of the template up to asOf
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   templateID path string true "Template ID"
// @Param   run body dto.RunRecurringRequest false "As-of date, defaults to today"
// @Success 200 {object} domain.RecurringRunSummary
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Failure 409 {object} dto.ErrorResponse "Template is paused"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/recurring-templates/{templateID}/run [post]
func (h *recurringHandler) runTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := bindAsOf(c, logger)
	if !ok {
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	summary, err := h.recurringService.RunTemplate(c.Request.Context(), c.Param("workplaceID"), c.Param("templateID"), asOf, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to run template")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// runDue godoc
// @Summary Run all due recurring templates
// @Description Scans every workplace. A failing template is reported in the summary and does not stop the scan.
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   run body dto.RunRecurringRequest false "As-of date, defaults to today"
// @Success 200 {object} domain.RecurringRunSummary
// @Security BearerAuth
// @Router /recurring/run-due [post]
func (h *recurringHandler) runDue(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := bindAsOf(c, logger)
	if !ok {
		return
	}

	summary, err := h.recurringService.RunDueRecurring(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to run recurring templates")
		return
	}

	logger.Info("Recurring run finished",
		slog.Int("posted", len(summary.Posted)), slog.Int("skipped", len(summary.Skipped)), slog.Int("failed", len(summary.Failed)))
	c.JSON(http.StatusOK, summary)
}

func bindAsOf(c *gin.Context, logger *slog.Logger) (time.Time, bool) {
	var req dto.RunRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, logger, err, "Invalid request format")
		return time.Time{}, false
	}
	if req.AsOf == nil {
		return domain.DateOf(time.Now().UTC()), true
	}
	return domain.DateOf(*req.AsOf), true
}

func registerRecurringRoutes(v1, workplace *gin.RouterGroup, recurringService portssvc.RecurringSvc) {
	h := newRecurringHandler(recurringService)

	templates := workplace.Group("/recurring-templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:templateID", h.getTemplate)
		templates.POST("/:templateID/pause", h.pauseTemplate)
		templates.POST("/:templateID/resume", h.resumeTemplate)
		templates.POST("/:templateID/run", h.runTemplate)
	}

	v1.POST("/recurring/run-due", h.runDue)
}
