package app

import (
	"context"
	"fmt"

	auditHTTP "github.com/carebridgehq/chartgate/internal/audit/http"
	auditRepository "github.com/carebridgehq/chartgate/internal/audit/repository"
	auditService "github.com/carebridgehq/chartgate/internal/audit/service"
	auditUseCase "github.com/carebridgehq/chartgate/internal/audit/usecase"
)

// ChainHasher returns the canonical hasher for audit entries.
func (c *Container) ChainHasher() auditService.ChainHasher {
	c.chainHasherInit.Do(func() {
		c.chainHasher = auditService.NewChainHasher()
	})
	return c.chainHasher
}

// EntrySigner returns the per-entry signer. When no keeper is configured the
// signer is a no-op: entries are chained but carry no site signature.
func (c *Container) EntrySigner() (auditService.EntrySigner, error) {
	var err error
	c.entrySignerInit.Do(func() {
		c.entrySigner, err = c.initEntrySigner()
		if err != nil {
			c.initErrors["entrySigner"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["entrySigner"]; exists {
		return nil, storedErr
	}
	return c.entrySigner, nil
}

// AuditRepository returns the audit repository instance.
func (c *Container) AuditRepository() (auditUseCase.AuditRepository, error) {
	var err error
	c.auditRepoInit.Do(func() {
		c.auditRepo, err = c.initAuditRepository()
		if err != nil {
			c.initErrors["auditRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditRepo"]; exists {
		return nil, storedErr
	}
	return c.auditRepo, nil
}

// AuditUseCase returns the audit chain use case.
func (c *Container) AuditUseCase() (auditUseCase.AuditUseCase, error) {
	var err error
	c.auditUCInit.Do(func() {
		c.auditUC, err = c.initAuditUseCase()
		if err != nil {
			c.initErrors["auditUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["auditUseCase"]; exists {
		return nil, storedErr
	}
	return c.auditUC, nil
}

// ChainHandler returns the audit chain HTTP handler.
func (c *Container) ChainHandler() (*auditHTTP.ChainHandler, error) {
	var err error
	c.chainHandlerInit.Do(func() {
		c.chainHandler, err = c.initChainHandler()
		if err != nil {
			c.initErrors["chainHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["chainHandler"]; exists {
		return nil, storedErr
	}
	return c.chainHandler, nil
}

// ChainSweeper returns the background chain integrity sweeper.
// Returns nil when the sweep interval is zero.
func (c *Container) ChainSweeper() (*auditUseCase.Sweeper, error) {
	var err error
	c.chainSweeperInit.Do(func() {
		c.chainSweeper, err = c.initChainSweeper()
		if err != nil {
			c.initErrors["chainSweeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["chainSweeper"]; exists {
		return nil, storedErr
	}
	return c.chainSweeper, nil
}

// initEntrySigner creates the entry signer, unwrapping the signing key with
// the configured keeper when one is set.
func (c *Container) initEntrySigner() (auditService.EntrySigner, error) {
	if c.config.AuditKeeperURI == "" || c.config.AuditWrappedSigningKey == "" {
		return auditService.NewNoopEntrySigner(), nil
	}

	siteKey, err := auditService.LoadSigningKey(
		context.Background(),
		c.config.AuditKeeperURI,
		c.config.AuditWrappedSigningKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit signing key: %w", err)
	}

	return auditService.NewHMACEntrySigner(siteKey)
}

// initAuditRepository creates the audit repository instance.
func (c *Container) initAuditRepository() (auditUseCase.AuditRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for audit repository: %w", err)
	}
	return auditRepository.NewPostgreSQLAuditRepository(db), nil
}

// initAuditUseCase creates the audit use case with metrics instrumentation.
func (c *Container) initAuditUseCase() (auditUseCase.AuditUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for audit use case: %w", err)
	}

	auditRepo, err := c.AuditRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit repository for audit use case: %w", err)
	}

	signer, err := c.EntrySigner()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry signer for audit use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for audit use case: %w", err)
	}

	useCase := auditUseCase.NewAuditUseCase(txManager, auditRepo, c.ChainHasher(), signer)
	return auditUseCase.NewAuditUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initChainHandler creates the audit chain HTTP handler.
func (c *Container) initChainHandler() (*auditHTTP.ChainHandler, error) {
	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for chain handler: %w", err)
	}
	return auditHTTP.NewChainHandler(auditUC, c.Logger()), nil
}

// initChainSweeper creates the background integrity sweeper.
func (c *Container) initChainSweeper() (*auditUseCase.Sweeper, error) {
	if c.config.ChainSweepInterval <= 0 {
		return nil, nil
	}

	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for chain sweeper: %w", err)
	}

	return auditUseCase.NewSweeper(auditUC, c.config.ChainSweepInterval, c.Logger()), nil
}
