// Package dto defines request and response payloads for operator endpoints.
package dto

import (
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// GuestSiteResponse is one site that accepts guest users.
type GuestSiteResponse struct {
	SiteName   string `json:"site_name"`
	SitePrefix string `json:"site_prefix"`
}

// GuestSiteListResponse is the guest site listing.
type GuestSiteListResponse struct {
	Sites []GuestSiteResponse `json:"sites"`
}

// NewGuestSiteListResponse converts operator records to the listing payload.
func NewGuestSiteListResponse(operators []*operatorDomain.Operator) GuestSiteListResponse {
	sites := make([]GuestSiteResponse, 0, len(operators))
	for _, operator := range operators {
		sites = append(sites, GuestSiteResponse{
			SiteName:   operator.SiteName,
			SitePrefix: operator.SitePrefix,
		})
	}
	return GuestSiteListResponse{Sites: sites}
}
