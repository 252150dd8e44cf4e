package app

import (
	"fmt"

	certHTTP "github.com/ndn-testbed/ndncert/internal/cert/http"
	certRepository "github.com/ndn-testbed/ndncert/internal/cert/repository"
	certService "github.com/ndn-testbed/ndncert/internal/cert/service"
	certUseCase "github.com/ndn-testbed/ndncert/internal/cert/usecase"
)

// TokenRepository returns the verification token repository instance.
func (c *Container) TokenRepository() (certUseCase.TokenRepository, error) {
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

// RequestRepository returns the certificate request repository instance.
func (c *Container) RequestRepository() (certUseCase.RequestRepository, error) {
	var err error
	c.requestRepoInit.Do(func() {
		c.requestRepo, err = c.initRequestRepository()
		if err != nil {
			c.initErrors["requestRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["requestRepo"]; exists {
		return nil, storedErr
	}
	return c.requestRepo, nil
}

// CertificateRepository returns the issued certificate repository instance.
func (c *Container) CertificateRepository() (certUseCase.CertificateRepository, error) {
	var err error
	c.certificateRepoInit.Do(func() {
		c.certificateRepo, err = c.initCertificateRepository()
		if err != nil {
			c.initErrors["certificateRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["certificateRepo"]; exists {
		return nil, storedErr
	}
	return c.certificateRepo, nil
}

// NamespacePolicy returns the namespace assignment policy instance.
func (c *Container) NamespacePolicy() (*certService.NamespacePolicy, error) {
	var err error
	c.namespacePolicyInit.Do(func() {
		directory, dirErr := c.OperatorRepository()
		if dirErr != nil {
			err = fmt.Errorf("failed to get operator repository for namespace policy: %w", dirErr)
			c.initErrors["namespacePolicy"] = err
			return
		}
		c.namespacePolicy = certService.NewNamespacePolicy(directory)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["namespacePolicy"]; exists {
		return nil, storedErr
	}
	return c.namespacePolicy, nil
}

// CommandVerifier returns the signed command verifier instance.
func (c *Container) CommandVerifier() (*certService.CommandVerifier, error) {
	var err error
	c.commandVerifierInit.Do(func() {
		directory, dirErr := c.OperatorRepository()
		if dirErr != nil {
			err = fmt.Errorf("failed to get operator repository for command verifier: %w", dirErr)
			c.initErrors["commandVerifier"] = err
			return
		}
		c.commandVerifier = certService.NewCommandVerifier(directory)
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["commandVerifier"]; exists {
		return nil, storedErr
	}
	return c.commandVerifier, nil
}

// TokenUseCase returns the token use case instance.
func (c *Container) TokenUseCase() (certUseCase.TokenUseCase, error) {
	var err error
	c.tokenUseCaseInit.Do(func() {
		c.tokenUseCase, err = c.initTokenUseCase()
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
	return c.tokenUseCase, nil
}

// RequestUseCase returns the request use case instance.
func (c *Container) RequestUseCase() (certUseCase.RequestUseCase, error) {
	var err error
	c.requestUseCaseInit.Do(func() {
		c.requestUseCase, err = c.initRequestUseCase()
		if err != nil {
			c.initErrors["requestUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["requestUseCase"]; exists {
		return nil, storedErr
	}
	return c.requestUseCase, nil
}

// DecisionUseCase returns the decision use case instance.
func (c *Container) DecisionUseCase() (certUseCase.DecisionUseCase, error) {
	var err error
	c.decisionUseCaseInit.Do(func() {
		c.decisionUseCase, err = c.initDecisionUseCase()
		if err != nil {
			c.initErrors["decisionUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["decisionUseCase"]; exists {
		return nil, storedErr
	}
	return c.decisionUseCase, nil
}

// CertificateUseCase returns the certificate use case instance.
func (c *Container) CertificateUseCase() (certUseCase.CertificateUseCase, error) {
	var err error
	c.certUseCaseInit.Do(func() {
		c.certUseCase, err = c.initCertificateUseCase()
		if err != nil {
			c.initErrors["certUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["certUseCase"]; exists {
		return nil, storedErr
	}
	return c.certUseCase, nil
}

// TokenHandler returns the token HTTP handler instance.
func (c *Container) TokenHandler() (*certHTTP.TokenHandler, error) {
	var err error
	c.tokenHandlerInit.Do(func() {
		useCase, useCaseErr := c.TokenUseCase()
		if useCaseErr != nil {
			err = fmt.Errorf("failed to get token use case for token handler: %w", useCaseErr)
			c.initErrors["tokenHandler"] = err
			return
		}
		c.tokenHandler = certHTTP.NewTokenHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["tokenHandler"]; exists {
		return nil, storedErr
	}
	return c.tokenHandler, nil
}

// RequestHandler returns the request HTTP handler instance.
func (c *Container) RequestHandler() (*certHTTP.RequestHandler, error) {
	var err error
	c.requestHandlerInit.Do(func() {
		requestUC, requestErr := c.RequestUseCase()
		if requestErr != nil {
			err = fmt.Errorf("failed to get request use case for request handler: %w", requestErr)
			c.initErrors["requestHandler"] = err
			return
		}
		decisionUC, decisionErr := c.DecisionUseCase()
		if decisionErr != nil {
			err = fmt.Errorf("failed to get decision use case for request handler: %w", decisionErr)
			c.initErrors["requestHandler"] = err
			return
		}
		c.requestHandler = certHTTP.NewRequestHandler(requestUC, decisionUC, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["requestHandler"]; exists {
		return nil, storedErr
	}
	return c.requestHandler, nil
}

// CertHandler returns the certificate HTTP handler instance.
func (c *Container) CertHandler() (*certHTTP.CertHandler, error) {
	var err error
	c.certHandlerInit.Do(func() {
		useCase, useCaseErr := c.CertificateUseCase()
		if useCaseErr != nil {
			err = fmt.Errorf("failed to get certificate use case for cert handler: %w", useCaseErr)
			c.initErrors["certHandler"] = err
			return
		}
		c.certHandler = certHTTP.NewCertHandler(useCase, c.Logger())
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["certHandler"]; exists {
		return nil, storedErr
	}
	return c.certHandler, nil
}

// initTokenRepository creates the token repository instance.
func (c *Container) initTokenRepository() (certUseCase.TokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for token repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case "mysql":
		return certRepository.NewMySQLTokenRepository(db), nil
	case "postgres":
		return certRepository.NewPostgreSQLTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRequestRepository creates the certificate request repository instance.
func (c *Container) initRequestRepository() (certUseCase.RequestRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for request repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return certRepository.NewMySQLRequestRepository(db), nil
	case "postgres":
		return certRepository.NewPostgreSQLRequestRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCertificateRepository creates the issued certificate repository instance.
func (c *Container) initCertificateRepository() (certUseCase.CertificateRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for certificate repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return certRepository.NewMySQLCertificateRepository(db), nil
	case "postgres":
		return certRepository.NewPostgreSQLCertificateRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initTokenUseCase creates the token use case with all its dependencies.
func (c *Container) initTokenUseCase() (certUseCase.TokenUseCase, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for token use case: %w", err)
	}

	policy, err := c.NamespacePolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to get namespace policy for token use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for token use case: %w", err)
	}

	useCase := certUseCase.NewToken(
		tokenRepo,
		policy,
		certService.NewAlphanumericGenerator(),
		c.Mailer(),
		c.config.BaseURL,
		c.config.TokenLength,
		c.Logger(),
	)
	return certUseCase.NewTokenUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initRequestUseCase creates the request use case with all its dependencies.
func (c *Container) initRequestUseCase() (certUseCase.RequestUseCase, error) {
	tokenRepo, err := c.TokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get token repository for request use case: %w", err)
	}

	requestRepo, err := c.RequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get request repository for request use case: %w", err)
	}

	policy, err := c.NamespacePolicy()
	if err != nil {
		return nil, fmt.Errorf("failed to get namespace policy for request use case: %w", err)
	}

	verifier, err := c.CommandVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get command verifier for request use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for request use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for request use case: %w", err)
	}

	useCase := certUseCase.NewRequest(
		tokenRepo,
		requestRepo,
		policy,
		verifier,
		txManager,
		c.Mailer(),
		c.Logger(),
	)
	return certUseCase.NewRequestUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initDecisionUseCase creates the decision use case with all its dependencies.
func (c *Container) initDecisionUseCase() (certUseCase.DecisionUseCase, error) {
	requestRepo, err := c.RequestRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get request repository for decision use case: %w", err)
	}

	certificateRepo, err := c.CertificateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate repository for decision use case: %w", err)
	}

	operatorRepo, err := c.OperatorRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get operator repository for decision use case: %w", err)
	}

	verifier, err := c.CommandVerifier()
	if err != nil {
		return nil, fmt.Errorf("failed to get command verifier for decision use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for decision use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for decision use case: %w", err)
	}

	useCase := certUseCase.NewDecision(
		requestRepo,
		certificateRepo,
		operatorRepo,
		verifier,
		txManager,
		c.Mailer(),
		c.config.BaseURL,
		c.Logger(),
	)
	return certUseCase.NewDecisionUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initCertificateUseCase creates the certificate use case with all its dependencies.
func (c *Container) initCertificateUseCase() (certUseCase.CertificateUseCase, error) {
	certificateRepo, err := c.CertificateRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get certificate repository for certificate use case: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for certificate use case: %w", err)
	}

	useCase := certUseCase.NewCertificate(certificateRepo)
	return certUseCase.NewCertificateUseCaseWithMetrics(useCase, businessMetrics), nil
}
