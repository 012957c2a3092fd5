package app

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	disclosureHTTP "github.com/carebridgehq/chartgate/internal/disclosure/http"
	disclosureUseCase "github.com/carebridgehq/chartgate/internal/disclosure/usecase"
	programRepository "github.com/carebridgehq/chartgate/internal/program/repository"
	programUseCase "github.com/carebridgehq/chartgate/internal/program/usecase"
	"github.com/carebridgehq/chartgate/internal/ratelimit"
	resourceRepository "github.com/carebridgehq/chartgate/internal/resource/repository"
)

// CounterStore returns the rate-limit counter store. A Redis-backed store is
// used when REDIS_URL is set so limits hold across replicas; otherwise an
// in-process store serves single-node deployments.
func (c *Container) CounterStore() (ratelimit.CounterStore, error) {
	var err error
	c.counterStoreInit.Do(func() {
		c.counterStore, err = c.initCounterStore()
		if err != nil {
			c.initErrors["counterStore"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["counterStore"]; exists {
		return nil, storedErr
	}
	return c.counterStore, nil
}

// RateLimiter returns the fixed-window rate limiter for disclosure requests.
func (c *Container) RateLimiter() (*ratelimit.Limiter, error) {
	var err error
	c.rateLimiterInit.Do(func() {
		c.rateLimiter, err = c.initRateLimiter()
		if err != nil {
			c.initErrors["rateLimiter"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["rateLimiter"]; exists {
		return nil, storedErr
	}
	return c.rateLimiter, nil
}

// ProgramRepository returns the program repository instance.
func (c *Container) ProgramRepository() (programUseCase.ProgramRepository, error) {
	var err error
	c.programRepoInit.Do(func() {
		c.programRepo, err = c.initProgramRepository()
		if err != nil {
			c.initErrors["programRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["programRepo"]; exists {
		return nil, storedErr
	}
	return c.programRepo, nil
}

// ResourceRepository returns the visibility-constrained resource reader.
func (c *Container) ResourceRepository() (disclosureUseCase.ResourceReader, error) {
	var err error
	c.resourceRepoInit.Do(func() {
		c.resourceRepo, err = c.initResourceRepository()
		if err != nil {
			c.initErrors["resourceRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["resourceRepo"]; exists {
		return nil, storedErr
	}
	return c.resourceRepo, nil
}

// ClassifierUseCase returns the program classifier use case.
func (c *Container) ClassifierUseCase() (programUseCase.ClassifierUseCase, error) {
	var err error
	c.classifierUCInit.Do(func() {
		c.classifierUC, err = c.initClassifierUseCase()
		if err != nil {
			c.initErrors["classifierUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["classifierUseCase"]; exists {
		return nil, storedErr
	}
	return c.classifierUC, nil
}

// DisclosureUseCase returns the disclosure gate use case.
func (c *Container) DisclosureUseCase() (disclosureUseCase.DisclosureUseCase, error) {
	var err error
	c.disclosureUCInit.Do(func() {
		c.disclosureUC, err = c.initDisclosureUseCase()
		if err != nil {
			c.initErrors["disclosureUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["disclosureUseCase"]; exists {
		return nil, storedErr
	}
	return c.disclosureUC, nil
}

// DisclosureHandler returns the disclosure HTTP handler.
func (c *Container) DisclosureHandler() (*disclosureHTTP.DisclosureHandler, error) {
	var err error
	c.disclosureHandlerInit.Do(func() {
		c.disclosureHandler, err = c.initDisclosureHandler()
		if err != nil {
			c.initErrors["disclosureHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["disclosureHandler"]; exists {
		return nil, storedErr
	}
	return c.disclosureHandler, nil
}

// initCounterStore creates the rate-limit counter store.
func (c *Container) initCounterStore() (ratelimit.CounterStore, error) {
	if c.config.RedisURL == "" {
		return ratelimit.NewMemoryCounterStore(), nil
	}

	opts, err := redis.ParseURL(c.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url for counter store: %w", err)
	}

	return ratelimit.NewRedisCounterStore(redis.NewClient(opts)), nil
}

// initRateLimiter creates the disclosure rate limiter.
func (c *Container) initRateLimiter() (*ratelimit.Limiter, error) {
	store, err := c.CounterStore()
	if err != nil {
		return nil, fmt.Errorf("failed to get counter store for rate limiter: %w", err)
	}
	return ratelimit.NewLimiter(store, c.Logger()), nil
}

// initProgramRepository creates the program repository instance.
func (c *Container) initProgramRepository() (programUseCase.ProgramRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for program repository: %w", err)
	}
	return programRepository.NewPostgreSQLProgramRepository(db), nil
}

// initResourceRepository creates the resource repository instance.
func (c *Container) initResourceRepository() (disclosureUseCase.ResourceReader, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for resource repository: %w", err)
	}
	return resourceRepository.NewPostgreSQLResourceRepository(db), nil
}

// initClassifierUseCase creates the program classifier use case.
func (c *Container) initClassifierUseCase() (programUseCase.ClassifierUseCase, error) {
	programRepo, err := c.ProgramRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get program repository for classifier use case: %w", err)
	}
	return programUseCase.NewClassifierUseCase(programRepo), nil
}

// initDisclosureUseCase creates the disclosure gate with metrics instrumentation.
func (c *Container) initDisclosureUseCase() (disclosureUseCase.DisclosureUseCase, error) {
	resourceRepo, err := c.ResourceRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get resource repository for disclosure use case: %w", err)
	}

	consentUC, err := c.ConsentUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get consent use case for disclosure use case: %w", err)
	}

	classifierUC, err := c.ClassifierUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get classifier use case for disclosure use case: %w", err)
	}

	auditUC, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for disclosure use case: %w", err)
	}

	limiter, err := c.RateLimiter()
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limiter for disclosure use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for disclosure use case: %w", err)
	}

	useCase := disclosureUseCase.NewDisclosureUseCase(
		resourceRepo,
		consentUC,
		classifierUC,
		auditUC,
		limiter,
		c.config.DisclosureRateLimitMax,
		c.config.DisclosureRateLimitWindow,
		c.Logger(),
	)
	return disclosureUseCase.NewDisclosureUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initDisclosureHandler creates the disclosure HTTP handler.
func (c *Container) initDisclosureHandler() (*disclosureHTTP.DisclosureHandler, error) {
	disclosureUC, err := c.DisclosureUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get disclosure use case for disclosure handler: %w", err)
	}
	return disclosureHTTP.NewDisclosureHandler(disclosureUC, c.Logger()), nil
}
