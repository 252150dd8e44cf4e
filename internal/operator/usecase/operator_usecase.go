package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ndn-testbed/ndncert/internal/database"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	"github.com/ndn-testbed/ndncert/internal/ndn"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// Operator implements OperatorUseCase.
type Operator struct {
	operatorRepository OperatorRepository
	txManager          database.TxManager
}

// NewOperator creates a new operator use case.
func NewOperator(operatorRepository OperatorRepository, txManager database.TxManager) *Operator {
	return &Operator{
		operatorRepository: operatorRepository,
		txManager:          txManager,
	}
}

// stringList accepts either a JSON string or a JSON array of strings. Older
// directory files carry a single email domain as a bare string.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = []string{single}
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*s = list
	return nil
}

// importRecord is one entry of an operators JSON file, keyed by site.
type importRecord struct {
	SiteName                 string     `json:"site_name"`
	SitePrefix               string     `json:"site_prefix"`
	SiteEmails               stringList `json:"site_emails"`
	Name                     string     `json:"name"`
	Email                    string     `json:"email"`
	Key                      string     `json:"key"`
	AllowGuests              bool       `json:"allowGuests"`
	DoNotSendOpRequests      bool       `json:"doNotSendOpRequests"`
	DoNotSendOpRequestsGuest bool       `json:"doNotSendOpRequestsForGuests"`
}

// Import replaces the whole directory with the records in an operators JSON
// file. Verification certificates are decoded up front, concurrently, so a
// bad record fails the import before anything is written.
func (o *Operator) Import(ctx context.Context, fileData []byte) (int, error) {
	var records map[string]importRecord
	if err := json.Unmarshal(fileData, &records); err != nil {
		return 0, apperrors.Wrapf(apperrors.ErrInvalidInput, "operators file: %v", err)
	}

	// Stable order so import is deterministic.
	keys := make([]string, 0, len(records))
	for key := range records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	now := time.Now().UTC()
	operators := make([]*operatorDomain.Operator, 0, len(records))
	for _, key := range keys {
		record := records[key]
		if record.SitePrefix == "" || len(record.SiteEmails) == 0 {
			return 0, apperrors.Wrapf(apperrors.ErrInvalidInput,
				"operator %q is missing site_prefix or site_emails", key)
		}
		id, err := uuid.NewV7()
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to generate operator id")
		}
		operators = append(operators, &operatorDomain.Operator{
			ID:                     id,
			SiteName:               record.SiteName,
			SitePrefix:             record.SitePrefix,
			SiteEmails:             record.SiteEmails,
			Name:                   record.Name,
			Email:                  record.Email,
			Key:                    record.Key,
			AllowGuests:            record.AllowGuests,
			SkipRequestNotify:      record.DoNotSendOpRequests,
			SkipGuestRequestNotify: record.DoNotSendOpRequestsGuest,
			CreatedAt:              now,
		})
	}

	group, _ := errgroup.WithContext(ctx)
	group.SetLimit(8)
	for _, operator := range operators {
		group.Go(func() error {
			if _, err := ndn.DecodeCertificateBase64(operator.Key); err != nil {
				return apperrors.Wrapf(err, "operator %q verification certificate", operator.SiteName)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return 0, err
	}

	err := o.txManager.WithTx(ctx, func(ctx context.Context) error {
		return o.operatorRepository.ReplaceAll(ctx, operators)
	})
	if err != nil {
		return 0, err
	}
	return len(operators), nil
}

// ListGuestSites returns the sites that accept guest users.
func (o *Operator) ListGuestSites(ctx context.Context) ([]*operatorDomain.Operator, error) {
	return o.operatorRepository.ListGuestSites(ctx)
}
