package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
	auditUseCase "github.com/carebridgehq/chartgate/internal/audit/usecase"
)

// RunVerifyChain walks the whole audit chain and recomputes every link.
// The walk never modifies the chain: operator-initiated verification from the
// CLI is read-only, unlike the API endpoint which records its own run.
// Returns an error when the chain is broken so the exit code reflects it.
func RunVerifyChain(
	ctx context.Context,
	auditUC auditUseCase.AuditUseCase,
	logger *slog.Logger,
	writer io.Writer,
	format string,
) error {
	logger.Info("verifying audit chain")

	report, err := auditUC.Verify(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify audit chain: %w", err)
	}

	if format == "json" {
		if err := outputReportJSON(writer, report); err != nil {
			return fmt.Errorf("failed to output JSON: %w", err)
		}
	} else {
		outputReportText(writer, report)
	}

	logger.Info("verification completed",
		slog.Int64("total_entries", report.TotalEntries),
		slog.Int64("verified_entries", report.VerifiedEntries),
		slog.Bool("intact", report.Intact),
	)

	if !report.Intact {
		return fmt.Errorf("audit chain is broken at entry %s", report.BrokenAtID)
	}

	return nil
}

// outputReportText outputs the report in human-readable text format.
func outputReportText(writer io.Writer, report *auditDomain.VerificationReport) {
	_, _ = fmt.Fprintf(writer, "Total entries:    %d\n", report.TotalEntries)
	_, _ = fmt.Fprintf(writer, "Verified entries: %d\n", report.VerifiedEntries)

	if report.Intact {
		_, _ = fmt.Fprintln(writer, "Chain is intact.")
		return
	}

	_, _ = fmt.Fprintf(writer, "CHAIN IS BROKEN at entry %s\n", report.BrokenAtID)
}

// outputReportJSON outputs the report in JSON format for machine consumption.
func outputReportJSON(writer io.Writer, report *auditDomain.VerificationReport) error {
	result := map[string]any{
		"totalEntries":    report.TotalEntries,
		"verifiedEntries": report.VerifiedEntries,
		"intact":          report.Intact,
		"brokenAtId":      nil,
	}
	if report.BrokenAtID != nil {
		result["brokenAtId"] = report.BrokenAtID.String()
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(writer, string(jsonBytes))
	return nil
}
