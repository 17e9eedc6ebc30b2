package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/journal_engine/internal/apperrors"
	"github.com/SscSPs/journal_engine/internal/dto"
	"github.com/gin-gonic/gin"
)

// statusFor maps an engine error to an HTTP status and the category reported to the client.
func statusFor(err error) (int, string) {
	var (
		unbalanced *apperrors.UnbalancedEntryError
		empty      *apperrors.EmptyEntryError
		appErr     *apperrors.AppError
	)
	switch {
	case errors.Is(err, apperrors.ErrFatal):
		return http.StatusInternalServerError, "fatal"
	case errors.Is(err, apperrors.ErrConcurrency):
		return http.StatusServiceUnavailable, "concurrency"
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.As(err, &unbalanced), errors.As(err, &empty):
		return http.StatusUnprocessableEntity, "invariant"
	case errors.Is(err, apperrors.ErrInvariant):
		return http.StatusConflict, "invariant"
	case errors.Is(err, apperrors.ErrBusinessRule):
		return http.StatusConflict, "business_rule"
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict, "duplicate"
	case errors.As(err, &appErr) && appErr.Code >= 400:
		return appErr.Code, ""
	default:
		return http.StatusInternalServerError, ""
	}
}

// respondError logs err at a level matching its severity and writes the error body.
// Server-side failures hide their detail behind fallback.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status, category := statusFor(err)
	body := dto.ErrorResponse{
		Error:     err.Error(),
		Category:  category,
		Retryable: apperrors.IsRetryable(err),
	}

	switch {
	case status == http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()), slog.Bool("fatal", apperrors.IsFatal(err)))
		body.Error = fallback
	case status == http.StatusServiceUnavailable:
		logger.Warn(fallback, slog.String("error", err.Error()))
	default:
		logger.Info("Request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}

	c.JSON(status, body)
}

// badRequest reports a malformed body or query.
func badRequest(c *gin.Context, logger *slog.Logger, err error, msg string) {
	logger.Warn(msg, slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg + ": " + err.Error(), Category: "validation"})
}
