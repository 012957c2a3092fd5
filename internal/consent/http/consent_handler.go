// Package http provides HTTP handlers for the consent API.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	"github.com/carebridgehq/chartgate/internal/consent/http/dto"
	consentUseCase "github.com/carebridgehq/chartgate/internal/consent/usecase"
	apperrors "github.com/carebridgehq/chartgate/internal/errors"
	"github.com/carebridgehq/chartgate/internal/httputil"
	customValidation "github.com/carebridgehq/chartgate/internal/validation"
)

// ConsentHandler handles HTTP requests for consent lifecycle operations.
type ConsentHandler struct {
	consentUseCase consentUseCase.ConsentUseCase
	logger         *slog.Logger
}

// NewConsentHandler creates a new consent handler with required dependencies.
func NewConsentHandler(
	useCase consentUseCase.ConsentUseCase,
	logger *slog.Logger,
) *ConsentHandler {
	return &ConsentHandler{
		consentUseCase: useCase,
		logger:         logger,
	}
}

// CreateHandler records a new consent with its signed artifact.
// POST /v1/consents - Requires authentication.
// Returns 201 Created. A scope that could never cover anything is rejected
// with 400; the window must be non-empty.
func (h *ConsentHandler) CreateHandler(c *gin.Context) {
	actor, ok := authHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid patient_id format: must be a valid UUID"),
			h.logger)
		return
	}

	consent, err := h.consentUseCase.Create(c.Request.Context(), &consentUseCase.CreateConsentInput{
		PatientID:  patientID,
		Recipient:  req.Recipient,
		Scope:      consentDomain.DecodeScope(req.Scope),
		ValidFrom:  req.ValidFrom,
		ValidUntil: req.ValidUntil,
		Document:   req.Document,
		ActorID:    actor.ID,
		Origin:     c.ClientIP(),
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapConsentToResponse(consent))
}

// RevokeHandler revokes a consent. Revocation is a logical delete: the row
// keeps its history, revoked_at marks the moment it stopped authorizing.
// POST /v1/consents/:id/revoke - Requires authentication.
// Returns 200 OK; revoking twice is a 409.
func (h *ConsentHandler) RevokeHandler(c *gin.Context) {
	actor, ok := authHTTP.GetActor(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid consent id format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.consentUseCase.Revoke(c.Request.Context(), id, actor.ID, c.ClientIP()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusOK)
}

// GetHandler retrieves a consent by id.
// GET /v1/consents/:id - Requires authentication.
func (h *ConsentHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid consent id format: must be a valid UUID"),
			h.logger)
		return
	}

	consent, err := h.consentUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentToResponse(consent))
}

// ListByPatientHandler retrieves a patient's consents, newest first.
// GET /v1/consents?patient_id=...&offset=0&limit=50 - Requires authentication.
func (h *ConsentHandler) ListByPatientHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	patientID, err := uuid.Parse(c.Query("patient_id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid patient_id parameter: must be a valid UUID"),
			h.logger)
		return
	}

	consents, err := h.consentUseCase.ListByPatient(c.Request.Context(), patientID, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConsentsToListResponse(consents))
}
