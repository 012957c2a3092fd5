package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	"github.com/carebridgehq/chartgate/internal/auth/http/dto"
	authUseCase "github.com/carebridgehq/chartgate/internal/auth/usecase"
	"github.com/carebridgehq/chartgate/internal/httputil"
	customValidation "github.com/carebridgehq/chartgate/internal/validation"
)

// TokenHandler handles HTTP requests for token operations.
type TokenHandler struct {
	tokenUseCase authUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(
	tokenUseCase authUseCase.TokenUseCase,
	logger *slog.Logger,
) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// IssueTokenHandler issues a new authentication token for an actor.
// POST /v1/auth/token - No authentication required (this is the authentication endpoint).
// Returns 201 Created with token and expiration time.
func (h *TokenHandler) IssueTokenHandler(c *gin.Context) {
	var req dto.IssueTokenRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	actorID, err := uuid.Parse(req.ActorID)
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid actor_id format: must be a valid UUID"),
			h.logger)
		return
	}

	input := &authDomain.IssueTokenInput{
		ActorID:     actorID,
		ActorSecret: req.ActorSecret,
	}

	output, err := h.tokenUseCase.Issue(c.Request.Context(), input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	response := dto.IssueTokenResponse{
		Token:     output.PlainToken,
		ExpiresAt: output.ExpiresAt,
	}

	c.JSON(http.StatusCreated, response)
}
