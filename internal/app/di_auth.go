package app

import (
	"fmt"

	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
	authRepository "github.com/carebridgehq/chartgate/internal/auth/repository"
	authService "github.com/carebridgehq/chartgate/internal/auth/service"
	authUseCase "github.com/carebridgehq/chartgate/internal/auth/usecase"
)

// SecretService returns the secret service for authentication operations.
func (c *Container) SecretService() authService.SecretService {
	c.secretServiceInit.Do(func() {
		c.secretService = authService.NewSecretService()
	})
	return c.secretService
}

// TokenService returns the token service for authentication operations.
func (c *Container) TokenService() authService.TokenService {
	c.tokenServiceInit.Do(func() {
		c.tokenService = authService.NewTokenService()
	})
	return c.tokenService
}

// ActorRepository returns the actor repository instance.
func (c *Container) ActorRepository() (authUseCase.ActorRepository, error) {
	var err error
	c.actorRepoInit.Do(func() {
		c.actorRepo, err = c.initActorRepository()
		if err != nil {
			c.initErrors["actorRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actorRepo"]; exists {
		return nil, storedErr
	}
	return c.actorRepo, nil
}

// TokenRepository returns the token repository instance.
func (c *Container) TokenRepository() (authUseCase.TokenRepository, error) {
	var err error
	c.tokenRepoInit.Do(func() {
		c.tokenRepo, err = c.initTokenRepository()
		if err != nil {
			c.initErrors["tokenRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenRepo"]; exists {
		return nil, storedErr
	}
	return c.tokenRepo, nil
}

// ActorUseCase returns the actor use case.
func (c *Container) ActorUseCase() (authUseCase.ActorUseCase, error) {
	var err error
	c.actorUCInit.Do(func() {
		c.actorUC, err = c.initActorUseCase()
		if err != nil {
			c.initErrors["actorUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["actorUseCase"]; exists {
		return nil, storedErr
	}
	return c.actorUC, nil
}

// TokenUseCase returns the token use case.
func (c *Container) TokenUseCase() (authUseCase.TokenUseCase, error) {
	var err error
	c.tokenUCInit.Do(func() {
		c.tokenUC, err = c.initTokenUseCase()
		if err != nil {
			c.initErrors["tokenUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenUseCase"]; exists {
		return nil, storedErr
	}
	return c.tokenUC, nil
}

// TokenHandler returns the token HTTP handler.
func (c *Container) TokenHandler() (*authHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		c.tokenHandler, err = c.initTokenHandler()
		if err != nil {
			c.initErrors["tokenHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// initActorRepository creates the actor repository instance.
func (c *Container) initActorRepository() (authUseCase.ActorRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for actor repository: %w", err)
	}
	return authRepository.NewPostgreSQLActorRepository(db), nil
}

// initTokenRepository creates the token repository instance.
func (c *Container) initTokenRepository() (authUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}
	return authRepository.NewPostgreSQLTokenRepository(db), nil
}

// initActorUseCase creates the actor use case with metrics instrumentation.
func (c *Container) initActorUseCase() (authUseCase.ActorUseCase, error) {
	actorRepo, err := c.ActorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get actor repository for actor use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for actor use case: %w", err)
	}

	useCase := authUseCase.NewActorUseCase(actorRepo, c.SecretService())
	return authUseCase.NewActorUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initTokenUseCase creates the token use case with metrics instrumentation.
func (c *Container) initTokenUseCase() (authUseCase.TokenUseCase, error) {
	actorRepo, err := c.ActorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get actor repository for token use case: %w", err)
	}

	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	useCase := authUseCase.NewTokenUseCase(c.config, actorRepo, tokenRepo, c.SecretService(), c.TokenService())
	return authUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initTokenHandler creates the token HTTP handler.
func (c *Container) initTokenHandler() (*authHTTP.TokenHandler, error) {
	tokenUC, err := c.TokenUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get token use case for token handler: %w", err)
	}
	return authHTTP.NewTokenHandler(tokenUC, c.Logger()), nil
}
