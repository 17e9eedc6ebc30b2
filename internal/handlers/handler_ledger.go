package handlers

import (
	"net/http"
	"time"

	"github.com/SscSPs/journal_engine/internal/core/domain"
	portssvc "github.com/SscSPs/journal_engine/internal/core/ports/services"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/SscSPs/journal_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerReaderSvc
}

func newLedgerHandler(ledgerService portssvc.LedgerReaderSvc) *ledgerHandler {
	return &ledgerHandler{ledgerService: ledgerService}
}

// accountBalance godoc
// @Summary Get an account balance
// @Description Sums the account's ledger rows dated on or before asOf, signed by its normal balance
// @Tags ledger
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   accountID path string true "Account ID"
// @Param   asOf query string false "Date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid date"
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to compute balance"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/accounts/{accountID}/balance [get]
func (h *ledgerHandler) accountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var params dto.AccountBalanceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	var asOf time.Time
	if params.AsOf != nil {
		asOf = domain.DateOf(*params.AsOf)
	}

	balance, err := h.ledgerService.AccountBalance(c.Request.Context(), c.Param("workplaceID"), accountID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to compute balance")
		return
	}
	if asOf.IsZero() {
		asOf = domain.DateOf(time.Now().UTC())
	}

	c.JSON(http.StatusOK, dto.AccountBalanceResponse{
		AccountID: accountID,
		AsOf:      asOf,
		Balance:   balance,
	})
}

// listLedgerRows godoc
// @Summary List an account's ledger rows
// @Description Retrieves a page of ledger rows in posting order with running balances
// @Tags ledger
// @Produce  json
// @Param   workplaceID path string true "Workplace ID"
// @Param   accountID path string true "Account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLedgerRowsResponse
// @Failure 404 {object} dto.ErrorResponse "Account not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to list ledger rows"
// @Security BearerAuth
// @Router /workplaces/{workplaceID}/accounts/{accountID}/ledger [get]
func (h *ledgerHandler) listLedgerRows(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListLedgerRowsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, logger, err, "Invalid query parameters")
		return
	}

	res, err := h.ledgerService.ListLedgerRows(c.Request.Context(), c.Param("workplaceID"), c.Param("accountID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list ledger rows")
		return
	}
	c.JSON(http.StatusOK, res)
}

func registerLedgerRoutes(workplace *gin.RouterGroup, ledgerService portssvc.LedgerReaderSvc) {
	h := newLedgerHandler(ledgerService)

	accounts := workplace.Group("/accounts/:accountID")
	{
		accounts.GET("/balance", h.accountBalance)
		accounts.GET("/ledger", h.listLedgerRows)
	}
}
