package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	consentUseCase "github.com/carebridgehq/chartgate/internal/consent/usecase"
)

// RunRevokeConsent revokes a consent by id, attributing the change to the
// given actor on the audit chain. Revoking an already revoked consent is a
// conflict, not a no-op.
func RunRevokeConsent(
	ctx context.Context,
	consentUC consentUseCase.ConsentUseCase,
	logger *slog.Logger,
	writer io.Writer,
	consentIDStr string,
	actorIDStr string,
) error {
	consentID, err := uuid.Parse(consentIDStr)
	if err != nil {
		return fmt.Errorf("invalid consent id: %w", err)
	}

	actorID, err := uuid.Parse(actorIDStr)
	if err != nil {
		return fmt.Errorf("invalid actor id: %w", err)
	}

	logger.Info("revoking consent",
		slog.String("consent_id", consentID.String()),
		slog.String("actor_id", actorID.String()),
	)

	if err := consentUC.Revoke(ctx, consentID, actorID, "cli"); err != nil {
		return fmt.Errorf("failed to revoke consent: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Consent %s revoked.\n", consentID)

	logger.Info("consent revoked successfully", slog.String("consent_id", consentID.String()))
	return nil
}
