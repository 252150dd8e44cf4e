package app

import (
	"fmt"

	operatorHTTP "github.com/ndn-testbed/ndncert/internal/operator/http"
	operatorRepository "github.com/ndn-testbed/ndncert/internal/operator/repository"
	operatorUseCase "github.com/ndn-testbed/ndncert/internal/operator/usecase"
)

// OperatorRepository returns the cached operator directory repository.
func (c *Container) OperatorRepository() (*operatorRepository.CachedOperatorRepository, error) {
	var err error
	c.operatorRepoInit.Do(func() {
		c.operatorRepo, err = c.initOperatorRepository()
		if err != nil {
			c.initErrors["operatorRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["operatorRepo"]; exists {
		return nil, storedErr
	}
	return c.operatorRepo, nil
}

// OperatorUseCase returns the operator use case instance.
func (c *Container) OperatorUseCase() (operatorUseCase.OperatorUseCase, error) {
	var err error
	c.operatorUseCaseInit.Do(func() {
		c.operatorUseCase, err = c.initOperatorUseCase()
		if err != nil {
			c.initErrors["operatorUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["operatorUseCase"]; exists {
		return nil, storedErr
	}
	return c.operatorUseCase, nil
}

// OperatorHandler returns the operator HTTP handler instance.
func (c *Container) OperatorHandler() (*operatorHTTP.OperatorHandler, error) {
	var err error
	c.operatorHandlerInit.Do(func() {
		c.operatorHandler, err = c.initOperatorHandler()
		if err != nil {
			c.initErrors["operatorHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["operatorHandler"]; exists {
		return nil, storedErr
	}
	return c.operatorHandler, nil
}

// initOperatorRepository creates the operator repository wrapped in the
// directory cache.
func (c *Container) initOperatorRepository() (*operatorRepository.CachedOperatorRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for operator repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return operatorRepository.NewCachedOperatorRepository(
			operatorRepository.NewMySQLOperatorRepository(db),
			c.config.OperatorCacheTTL,
		), nil
	case "postgres":
		return operatorRepository.NewCachedOperatorRepository(
			operatorRepository.NewPostgreSQLOperatorRepository(db),
			c.config.OperatorCacheTTL,
		), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOperatorUseCase creates the operator use case with all its dependencies.
func (c *Container) initOperatorUseCase() (operatorUseCase.OperatorUseCase, error) {
	repo, err := c.OperatorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get operator repository for operator use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for operator use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for operator use case: %w", err)
	}

	useCase := operatorUseCase.NewOperator(repo, txManager)
	return operatorUseCase.NewOperatorUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initOperatorHandler creates the operator HTTP handler.
func (c *Container) initOperatorHandler() (*operatorHTTP.OperatorHandler, error) {
	useCase, err := c.OperatorUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get operator use case for operator handler: %w", err)
	}
	return operatorHTTP.NewOperatorHandler(useCase, c.Logger()), nil
}
