package usecase

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper runs periodic chain verification in the background so tampering is
// noticed without waiting for someone to call the verify endpoint.
type Sweeper struct {
	auditUseCase AuditUseCase
	interval     time.Duration
	logger       *slog.Logger
}

// NewSweeper creates a Sweeper verifying the chain every interval.
func NewSweeper(auditUseCase AuditUseCase, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		auditUseCase: auditUseCase,
		interval:     interval,
		logger:       logger,
	}
}

// Start runs the verification loop until ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("starting audit chain sweeper",
		slog.Duration("interval", s.interval),
	)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("stopping audit chain sweeper")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	report, err := s.auditUseCase.Verify(ctx)
	if err != nil {
		s.logger.Error("audit chain sweep failed", slog.Any("error", err))
		return
	}

	if !report.Intact {
		s.logger.Error("audit chain tampering detected",
			slog.Int64("total_entries", report.TotalEntries),
			slog.Int64("verified_entries", report.VerifiedEntries),
			slog.String("broken_at_id", report.BrokenAtID.String()),
		)
		return
	}

	s.logger.Info("audit chain sweep completed",
		slog.Int64("total_entries", report.TotalEntries),
	)
}
