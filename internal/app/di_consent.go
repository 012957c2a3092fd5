package app

import (
	"context"
	"fmt"

	consentHTTP "github.com/carebridgehq/chartgate/internal/consent/http"
	consentRepository "github.com/carebridgehq/chartgate/internal/consent/repository"
	consentService "github.com/carebridgehq/chartgate/internal/consent/service"
	consentUseCase "github.com/carebridgehq/chartgate/internal/consent/usecase"
)

// ArtifactStore returns the content-addressed store for consent documents.
func (c *Container) ArtifactStore() (consentService.ArtifactStore, error) {
	var err error
	c.artifactStoreInit.Do(func() {
		c.artifactStore, err = c.initArtifactStore()
		if err != nil {
			c.initErrors["artifactStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["artifactStore"]; exists {
		return nil, storedErr
	}
	return c.artifactStore, nil
}

// ConsentRepository returns the consent repository instance.
func (c *Container) ConsentRepository() (consentUseCase.ConsentRepository, error) {
	var err error
	c.consentRepoInit.Do(func() {
		c.consentRepo, err = c.initConsentRepository()
		if err != nil {
			c.initErrors["consentRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentRepo"]; exists {
		return nil, storedErr
	}
	return c.consentRepo, nil
}

// ConsentUseCase returns the consent use case.
func (c *Container) ConsentUseCase() (consentUseCase.ConsentUseCase, error) {
	var err error
	c.consentUCInit.Do(func() {
		c.consentUC, err = c.initConsentUseCase()
		if err != nil {
			c.initErrors["consentUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentUseCase"]; exists {
		return nil, storedErr
	}
	return c.consentUC, nil
}

// ConsentHandler returns the consent HTTP handler.
func (c *Container) ConsentHandler() (*consentHTTP.ConsentHandler, error) {
	var err error
	c.consentHandlerInit.Do(func() {
		c.consentHandler, err = c.initConsentHandler()
		if err != nil {
			c.initErrors["consentHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["consentHandler"]; exists {
		return nil, storedErr
	}
	return c.consentHandler, nil
}

// initArtifactStore opens the configured blob bucket for consent artifacts.
func (c *Container) initArtifactStore() (consentService.ArtifactStore, error) {
	store, err := consentService.NewArtifactStore(context.Background(), c.config.ConsentArtifactBucketURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open consent artifact store: %w", err)
	}
	return store, nil
}

// initConsentRepository creates the consent repository instance.
func (c *Container) initConsentRepository() (consentUseCase.ConsentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for consent repository: %w", err)
	}
	return consentRepository.NewPostgreSQLConsentRepository(db), nil
}

// initConsentUseCase creates the consent use case with metrics instrumentation.
func (c *Container) initConsentUseCase() (consentUseCase.ConsentUseCase, error) {
	consentRepo, err := c.ConsentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent repository for consent use case: %w", err)
	}

	artifactStore, err := c.ArtifactStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get artifact store for consent use case: %w", err)
	}

	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for consent use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for consent use case: %w", err)
	}

	useCase := consentUseCase.NewConsentUseCase(consentRepo, artifactStore, auditUC)
	return consentUseCase.NewConsentUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initConsentHandler creates the consent HTTP handler.
func (c *Container) initConsentHandler() (*consentHTTP.ConsentHandler, error) {
	consentUC, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for consent handler: %w", err)
	}
	return consentHTTP.NewConsentHandler(consentUC, c.Logger()), nil
}
