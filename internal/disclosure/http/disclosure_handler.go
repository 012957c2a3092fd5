// Package http provides the HTTP surface of the disclosure gate.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
	disclosureDomain "github.com/carebridgehq/chartgate/internal/disclosure/domain"
	"github.com/carebridgehq/chartgate/internal/disclosure/http/dto"
	disclosureUseCase "github.com/carebridgehq/chartgate/internal/disclosure/usecase"
	apperrors "github.com/carebridgehq/chartgate/internal/errors"
	"github.com/carebridgehq/chartgate/internal/httputil"
	customValidation "github.com/carebridgehq/chartgate/internal/validation"
)

// PurposeHeader carries the optional free-text purpose of a disclosure. It is
// redacted before it reaches the audit chain.
const PurposeHeader = "X-Disclosure-Purpose"

// DisclosureHandler handles HTTP requests for the disclosure endpoint.
type DisclosureHandler struct {
	disclosureUseCase disclosureUseCase.DisclosureUseCase
	logger            *slog.Logger
}

// NewDisclosureHandler creates a new disclosure handler with required dependencies.
func NewDisclosureHandler(
	useCase disclosureUseCase.DisclosureUseCase,
	logger *slog.Logger,
) *DisclosureHandler {
	return &DisclosureHandler{
		disclosureUseCase: useCase,
		logger:            logger,
	}
}

// DiscloseHandler runs the disclosure gate for the authenticated actor.
// POST /v1/disclosures - Requires authentication.
// Returns 200 with the manifest, 400 on a malformed payload, 401/403/429/500
// per the gate's decision. Malformed payloads are rejected here and never
// reach the gate, so they produce no audit entries.
func (h *DisclosureHandler) DiscloseHandler(c *gin.Context) {
	actor, ok := authHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.DiscloseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	manifest, err := h.disclosureUseCase.Disclose(c.Request.Context(), &disclosureDomain.Request{
		ActorID:         actor.ID,
		ConsentID:       req.ConsentID,
		ConversationIDs: req.ConversationIDs,
		NoteIDs:         req.NoteIDs,
		FileIDs:         req.FileIDs,
		Purpose:         c.GetHeader(PurposeHeader),
		Origin:          c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapManifestToResponse(manifest))
}
