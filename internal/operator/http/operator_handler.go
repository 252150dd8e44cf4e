// Package http provides HTTP handlers for the operator directory.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndn-testbed/ndncert/internal/httputil"
	"github.com/ndn-testbed/ndncert/internal/operator/http/dto"
	operatorUseCase "github.com/ndn-testbed/ndncert/internal/operator/usecase"
)

// OperatorHandler handles HTTP requests for the operator directory.
type OperatorHandler struct {
	operatorUseCase operatorUseCase.OperatorUseCase
	logger          *slog.Logger
}

// NewOperatorHandler creates a new operator handler with required dependencies.
func NewOperatorHandler(
	operatorUseCase operatorUseCase.OperatorUseCase,
	logger *slog.Logger,
) *OperatorHandler {
	return &OperatorHandler{
		operatorUseCase: operatorUseCase,
		logger:          logger,
	}
}

// ListGuestSitesHandler lists the sites that accept guest users.
// GET /v1/guest-sites - No authentication required; the listing feeds the
// public token request form.
// Returns 200 OK with the guest site list.
func (h *OperatorHandler) ListGuestSitesHandler(c *gin.Context) {
	operators, err := h.operatorUseCase.ListGuestSites(c.Request.Context())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewGuestSiteListResponse(operators))
}
