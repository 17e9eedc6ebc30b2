package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(journalService portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: journalService,
	}
}

// buildDraft godoc
// @Summary Create a draft journal entry
// @Description Validates the proposed lines and stores them as a numbered draft. Unbalanced drafts are accepted and fail on post.
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   entry body dto.CreateEntryRequest true "Entry and lines"
// @Success 201 {object} dto.EntryResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 409 {object} dto.ErrorResponse "Period closed or locked"
// @Failure 500 {object} dto.ErrorResponse "Failed to create entry"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/entries [post]
func (h *journalHandler) buildDraft(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	workplaceID := c.Param("workplaceID")

	var req dto.CreateEntryRequest
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

	entry, err := h.journalService.BuildDraft(c.Request.Context(), workplaceID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create entry")
		return
	}

	logger.Info("Draft entry created", slog.String("entry_id", entry.EntryID), slog.Int64("entry_number", entry.EntryNumber))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(entry))
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves an entry and its lines
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to retrieve entry"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/entries/{entryID} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.journalService.GetEntry(c.Request.Context(), c.Param("workplaceID"), c.Param("entryID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a page of entries, newest first
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   status query string false "Filter by status" Enums(DRAFT, POSTED, REVERSED, VOIDED)
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 500 {object} dto.ErrorResponse "Failed to list entries"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	res, err := h.journalService.ListEntries(c.Request.Context(), c.Param("workplaceID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, res)
}

// postEntry godoc
// @Summary Post a draft entry
// @Description Moves a balanced draft to POSTED and writes its ledger rows
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Not a draft, or period closed"
// @Failure 422 {object} dto.ErrorResponse "Entry is unbalanced"
// @Failure 503 {object} dto.ErrorResponse "Lock contention, retry"
// @Failure 500 {object} dto.ErrorResponse "Failed to post entry"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/entries/{entryID}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.journalService.Post(c.Request.Context(), c.Param("workplaceID"), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post entry")
		return
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// voidEntry godoc
// @Summary Void a draft entry
// @Description Moves a draft to VOIDED. Posted entries must be reversed instead.
// @Tags entries
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Entry is not a draft"
// @Failure 500 {object} dto.ErrorResponse "Failed to void entry"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/entries/{entryID}/void [post]
func (h *journalHandler) voidEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.journalService.Void(c.Request.Context(), c.Param("workplaceID"), entryID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to void entry")
		return
	}

	logger.Info("Entry voided", slog.String("entry_id", entryID))
	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a posted entry
// @Description Posts a mirrored entry and marks the source REVERSED
// @Tags entries
// @Accept  json
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   entryID path string true "Entry ID"
// @Param   reversal body dto.ReverseEntryRequest false "Reversal date, defaults to today"
// @Success 201 {object} dto.EntryResponse "The reversing entry"
// @Failure 404 {object} dto.ErrorResponse "Entry not found"
// @Failure 409 {object} dto.ErrorResponse "Not posted, already reversed, or period closed"
// @Failure 503 {object} dto.ErrorResponse "Lock contention, retry"
// @Failure 500 {object} dto.ErrorResponse "Failed to reverse entry"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/entries/{entryID}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	var req dto.ReverseEntryRequest
	// an empty body means reverse today
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, logger, err, "Invalid request format")
		return
	}

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversal, err := h.journalService.Reverse(c.Request.Context(), c.Param("workplaceID"), entryID, req.ReversalDate, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to reverse entry")
		return
	}

	logger.Info("Entry reversed", slog.String("entry_id", entryID), slog.String("reversal_id", reversal.EntryID))
	c.JSON(http.StatusCreated, dto.ToEntryResponse(reversal))
}

// registerEntryRoutes registers journal entry routes under a workplace group.
func registerEntryRoutes(workplace *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := workplace.Group("/entries")
	{
		entries.POST("", h.buildDraft)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.POST("/:entryID/post", h.postEntry)
		entries.POST("/:entryID/void", h.voidEntry)
		entries.POST("/:entryID/reverse", h.reverseEntry)
	}
}
