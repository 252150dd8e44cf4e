package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	"github.com/ndn-testbed/ndncert/internal/cert/service"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	"github.com/ndn-testbed/ndncert/internal/mailer"
)

// Token implements TokenUseCase.
type Token struct {
	tokenRepository TokenRepository
	policy          *service.NamespacePolicy
	generator       service.TokenGenerator
	mailer          mailer.Mailer
	baseURL         string
	tokenLength     int
	logger          *slog.Logger
}

// NewToken creates a new token use case.
func NewToken(
	tokenRepository TokenRepository,
	policy *service.NamespacePolicy,
	generator service.TokenGenerator,
	mail mailer.Mailer,
	baseURL string,
	tokenLength int,
	logger *slog.Logger,
) *Token {
	return &Token{
		tokenRepository: tokenRepository,
		policy:          policy,
		generator:       generator,
		mailer:          mail,
		baseURL:         baseURL,
		tokenLength:     tokenLength,
		logger:          logger,
	}
}

// RequestToken resolves the namespace assignment for the email, stores a
// fresh token, and emails the confirmation link. Resolution runs first so an
// address no site serves is rejected before anything is stored. Users of the
// operators site have no reachable mailbox; they get the confirmation URL in
// the response instead.
func (t *Token) RequestToken(ctx context.Context, input *RequestTokenInput) (*TokenGrant, error) {
	if _, _, err := t.policy.Resolve(ctx, input.Email, input.SitePrefix); err != nil {
		return nil, err
	}

	secret, err := t.generator.Generate(t.tokenLength)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to generate token id")
	}

	token := &certDomain.Token{
		ID:         id,
		Email:      input.Email,
		Secret:     secret,
		SitePrefix: input.SitePrefix,
		CreatedAt:  time.Now().UTC(),
	}
	if err := t.tokenRepository.Create(ctx, token); err != nil {
		return nil, err
	}

	confirmURL := t.confirmURL(token)

	if service.IsOperatorsSiteEmail(input.Email) {
		t.logger.InfoContext(ctx, "token handed back directly", slog.String("email", input.Email))
		return &TokenGrant{Delivered: false, ConfirmURL: confirmURL}, nil
	}

	msg, err := mailer.ComposeTokenEmail(input.Email, mailer.TokenEmail{
		Email:      input.Email,
		ConfirmURL: confirmURL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to compose token email")
	}
	if err := t.mailer.Send(ctx, msg); err != nil {
		return nil, apperrors.Wrap(err, "failed to send token email")
	}

	return &TokenGrant{Delivered: true}, nil
}

// CleanExpired removes tokens older than the retention period.
func (t *Token) CleanExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	removed, err := t.tokenRepository.DeleteExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	t.logger.InfoContext(ctx, "expired tokens removed", slog.Int64("count", removed))
	return removed, nil
}

func (t *Token) confirmURL(token *certDomain.Token) string {
	values := url.Values{}
	values.Set("email", token.Email)
	values.Set("token", token.Secret)
	return fmt.Sprintf("%s/confirm?%s", t.baseURL, values.Encode())
}
