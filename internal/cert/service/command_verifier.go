package service

import (
	"context"

	certDomain "github.com/ndn-testbed/ndncert/internal/cert/domain"
	apperrors "github.com/ndn-testbed/ndncert/internal/errors"
	"github.com/ndn-testbed/ndncert/internal/ndn"
	operatorDomain "github.com/ndn-testbed/ndncert/internal/operator/domain"
)

// CommandVerifier authenticates operator signed commands. Every failure mode
// collapses into ErrCommandForbidden so a probing caller cannot tell which
// step rejected the command.
type CommandVerifier struct {
	directory OperatorDirectory
}

// NewCommandVerifier creates a command verifier over the operator directory.
func NewCommandVerifier(directory OperatorDirectory) *CommandVerifier {
	return &CommandVerifier{directory: directory}
}

// Verify decodes a base64 signed command, resolves the operator for the site
// prefix the command names, and checks the signature against that operator's
// verification certificate. The command timestamp is decoded but not checked
// for freshness; replay protection is out of scope for this verifier.
func (v *CommandVerifier) Verify(
	ctx context.Context,
	commandBase64 string,
) (*operatorDomain.Operator, *ndn.SignedCommand, error) {
	cmd, err := ndn.ParseSignedCommandBase64(commandBase64)
	if err != nil {
		return nil, nil, apperrors.Wrapf(certDomain.ErrCommandForbidden, "parse: %v", err)
	}

	operator, err := v.directory.GetBySitePrefix(ctx, cmd.SitePrefix.String())
	if err != nil {
		return nil, nil, apperrors.Wrapf(certDomain.ErrCommandForbidden, "site %s", cmd.SitePrefix)
	}

	cert, err := ndn.DecodeCertificateBase64(operator.Key)
	if err != nil {
		return nil, nil, apperrors.Wrapf(certDomain.ErrCommandForbidden, "operator certificate: %v", err)
	}

	if err := ndn.VerifyCommand(cmd, cert); err != nil {
		return nil, nil, apperrors.Wrapf(certDomain.ErrCommandForbidden, "%v", err)
	}

	return operator, &cmd, nil
}
