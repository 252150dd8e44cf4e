package http

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ndn-testbed/ndncert/internal/cert/http/dto"
	certUseCase "github.com/ndn-testbed/ndncert/internal/cert/usecase"
	"github.com/ndn-testbed/ndncert/internal/httputil"
	"github.com/ndn-testbed/ndncert/internal/ndn"
)

// CertHandler handles HTTP requests for public certificate retrieval.
type CertHandler struct {
	certificateUseCase certUseCase.CertificateUseCase
	logger             *slog.Logger
}

// NewCertHandler creates a new certificate handler with required dependencies.
func NewCertHandler(certificateUseCase certUseCase.CertificateUseCase, logger *slog.Logger) *CertHandler {
	return &CertHandler{
		certificateUseCase: certificateUseCase,
		logger:             logger,
	}
}

// GetHandler serves a stored certificate by its full name.
// GET /v1/certs?name=<uri> - No authentication required.
// Returns the wire encoding as a download, or the decoded validity period as
// JSON when view=validity.
func (h *CertHandler) GetHandler(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("name query parameter is required"), h.logger)
		return
	}

	if c.Query("view") == "validity" {
		validity, err := h.certificateUseCase.GetValidity(c.Request.Context(), name)
		if err != nil {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		c.JSON(http.StatusOK, dto.NewCertificateValidityResponse(validity))
		return
	}

	certificate, err := h.certificateUseCase.GetByName(c.Request.Context(), name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	wire, err := base64.StdEncoding.DecodeString(certificate.Data)
	if err != nil {
		httputil.HandleErrorGin(c, fmt.Errorf("stored certificate is corrupt: %w", err), h.logger)
		return
	}

	c.Header("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", downloadFilename(certificate.Name)))
	c.Data(http.StatusOK, "application/octet-stream", wire)
}

// ListHandler lists stored certificates.
// GET /v1/certs/list?offset=&limit= - No authentication required.
// Returns 200 OK with a page of certificate names.
func (h *CertHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	certificates, err := h.certificateUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.NewCertificateListResponse(certificates, offset, limit))
}

// downloadFilename derives the download name from the key id component of the
// certificate name, /<identity>/KEY/<key-id>/<issuer>/<version>.
func downloadFilename(certName string) string {
	name, err := ndn.ParseName(certName)
	if err != nil || name.Size() < 3 {
		return "certificate.ndncert"
	}
	return fmt.Sprintf("%s.ndncert", name.At(-3))
}
