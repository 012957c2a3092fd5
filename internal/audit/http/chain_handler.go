// Package http provides HTTP handlers for the audit chain API.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carebridgehq/chartgate/internal/audit/http/dto"
	auditUseCase "github.com/carebridgehq/chartgate/internal/audit/usecase"
	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
	apperrors "github.com/carebridgehq/chartgate/internal/errors"
	"github.com/carebridgehq/chartgate/internal/httputil"
)

// ChainHandler handles HTTP requests for audit chain operations.
type ChainHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewChainHandler creates a new chain handler with required dependencies.
func NewChainHandler(
	useCase auditUseCase.AuditUseCase,
	logger *slog.Logger,
) *ChainHandler {
	return &ChainHandler{
		auditUseCase: useCase,
		logger:       logger,
	}
}

// VerifyHandler verifies the whole chain and records the check on the chain
// itself, attributed to the calling actor.
// GET /v1/audit/verify - Requires authentication.
// Returns 200 with the verification report; a broken chain is a 200 with
// intact=false, not an error.
func (h *ChainHandler) VerifyHandler(c *gin.Context) {
	actor, ok := authHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	report, err := h.auditUseCase.VerifyAndRecord(c.Request.Context(), actor.ID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !report.Intact {
		h.logger.Error("audit chain verification failed",
			slog.Int64("verified_entries", report.VerifiedEntries),
			slog.Int64("total_entries", report.TotalEntries),
		)
	}

	c.JSON(http.StatusOK, dto.MapVerificationReportToResponse(report))
}

// ListHandler retrieves audit entries with pagination support.
// GET /v1/audit/entries?offset=0&limit=50 - Requires authentication.
// Returns 200 OK with entries ordered by creation descending (newest first).
func (h *ChainHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, total, err := h.auditUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAuditEntriesToListResponse(entries, total))
}
