package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	authUseCase "github.com/carebridgehq/chartgate/internal/auth/usecase"
)

// RunCreateActor creates a new actor and prints its credentials.
// The plain secret is shown exactly once; only its Argon2id hash is stored.
//
// Requirements: Database must be migrated and accessible.
func RunCreateActor(
	ctx context.Context,
	actorUseCase authUseCase.ActorUseCase,
	logger *slog.Logger,
	name string,
	format string,
	io IOTuple,
) error {
	logger.Info("creating new actor", slog.String("name", name))

	output, err := actorUseCase.Create(ctx, &authDomain.CreateActorInput{Name: name})
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}

	if format == "json" {
		outputActorJSON(output, io.Writer)
	} else {
		outputActorText(output, io.Writer)
	}

	logger.Info("actor created successfully",
		slog.String("actor_id", output.ActorID.String()),
		slog.String("name", name),
	)

	return nil
}

// outputActorText outputs the result in human-readable text format.
func outputActorText(output *authDomain.CreateActorOutput, writer io.Writer) {
	_, _ = fmt.Fprintln(writer, "\nActor created successfully!")
	_, _ = fmt.Fprintf(writer, "Actor ID: %s\n", output.ActorID.String())
	_, _ = fmt.Fprintf(writer, "Secret: %s\n", output.PlainSecret)
	_, _ = fmt.Fprintln(writer, "\nIMPORTANT: The secret is shown only once. Store it securely.")
}

// outputActorJSON outputs the result in JSON format for machine consumption.
func outputActorJSON(output *authDomain.CreateActorOutput, writer io.Writer) {
	result := map[string]string{
		"actor_id": output.ActorID.String(),
		"secret":   output.PlainSecret,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
}
