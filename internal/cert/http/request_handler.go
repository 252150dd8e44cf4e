package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ndn-testbed/ndncert/internal/cert/http/dto"
	certUseCase "github.com/ndn-testbed/ndncert/internal/cert/usecase"
	"github.com/ndn-testbed/ndncert/internal/httputil"
	customValidation "github.com/ndn-testbed/ndncert/internal/validation"
)

// RequestHandler handles HTTP requests for certificate request submission and
// operator workflows.
type RequestHandler struct {
	requestUseCase  certUseCase.RequestUseCase
	decisionUseCase certUseCase.DecisionUseCase
	logger          *slog.Logger
}

// NewRequestHandler creates a new request handler with required dependencies.
func NewRequestHandler(
	requestUseCase certUseCase.RequestUseCase,
	decisionUseCase certUseCase.DecisionUseCase,
	logger *slog.Logger,
) *RequestHandler {
	return &RequestHandler{
		requestUseCase:  requestUseCase,
		decisionUseCase: decisionUseCase,
		logger:          logger,
	}
}

// SubmitHandler submits a certificate request with a verification token.
// POST /v1/requests - Authenticated by the one-time token in the payload.
// Returns 201 Created with the stored request.
func (h *RequestHandler) SubmitHandler(c *gin.Context) {
	var req dto.SubmitRequestRequest

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

	request, err := h.requestUseCase.Submit(c.Request.Context(), &certUseCase.SubmitRequestInput{
		Email:       req.Email,
		Token:       req.Token,
		FullName:    req.FullName,
		HomeURL:     req.HomeURL,
		Group:       req.Group,
		Advisor:     req.Advisor,
		CertRequest: req.CertRequest,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRequestResponse(request))
}

// ListHandler lists the pending requests of the operator that signed the
// command.
// POST /v1/requests/list - Authenticated by the signed command in the payload.
// Returns 200 OK with the pending request list.
func (h *RequestHandler) ListHandler(c *gin.Context) {
	var req dto.ListRequestsRequest

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

	requests, err := h.requestUseCase.ListForOperator(c.Request.Context(), req.Command)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewRequestListResponse(requests))
}

// DecideHandler applies an operator's decision to a pending request.
// POST /v1/requests/:id/decision - Authenticated by the signed command in the
// payload; the operator may only decide requests assigned to their site.
// Returns 200 OK with the decision outcome.
func (h *RequestHandler) DecideHandler(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid request id: %w", err), h.logger)
		return
	}

	var req dto.DecideRequest

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

	outcome, err := h.decisionUseCase.Decide(c.Request.Context(), &certUseCase.DecideInput{
		RequestID: requestID,
		Command:   req.Command,
		Data:      req.Data,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewDecisionResponse(outcome))
}
