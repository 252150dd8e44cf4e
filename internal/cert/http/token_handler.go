// Package http provides HTTP handlers for the certificate issuance workflow:
// token requests, request submission, operator decisions, and public
// certificate retrieval.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndn-testbed/ndncert/internal/cert/http/dto"
	certUseCase "github.com/ndn-testbed/ndncert/internal/cert/usecase"
	"github.com/ndn-testbed/ndncert/internal/httputil"
	customValidation "github.com/ndn-testbed/ndncert/internal/validation"
)

// TokenHandler handles HTTP requests for verification tokens.
type TokenHandler struct {
	tokenUseCase certUseCase.TokenUseCase
	logger       *slog.Logger
}

// NewTokenHandler creates a new token handler with required dependencies.
func NewTokenHandler(tokenUseCase certUseCase.TokenUseCase, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{
		tokenUseCase: tokenUseCase,
		logger:       logger,
	}
}

// RequestTokenHandler issues a verification token for an email address.
// POST /v1/tokens - No authentication required; rate limited per client IP.
// Returns 202 Accepted when the token was emailed or handed back directly.
func (h *TokenHandler) RequestTokenHandler(c *gin.Context) {
	var req dto.RequestTokenRequest

	// Parse and bind JSON
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	grant, err := h.tokenUseCase.RequestToken(c.Request.Context(), &certUseCase.RequestTokenInput{
		Email:      req.Email,
		SitePrefix: req.SitePrefix,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusAccepted, dto.NewTokenResponse(grant))
}
