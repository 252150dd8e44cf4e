package mailer

import (
	"embed"
	html "html/template"
	"strings"
	text "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	textTemplates = text.Must(text.ParseFS(templateFS, "templates/*.txt.tmpl"))
	htmlTemplates = html.Must(html.ParseFS(templateFS, "templates/*.html.tmpl"))
)

// TokenEmail holds the fields of the verification token message.
type TokenEmail struct {
	Email      string
	ConfirmURL string
}

// OperatorNotifyEmail holds the fields of the pending-request alert sent to
// site operators.
type OperatorNotifyEmail struct {
	FullName  string
	Email     string
	Namespace string
	SiteName  string
}

// CertIssuedEmail holds the fields of the issuance confirmation. KeyID is the
// key id component of the certificate name, the short identifier the testbed
// tooling refers to certificates by.
type CertIssuedEmail struct {
	CertName    string
	KeyID       string
	DownloadURL string
}

// CertRejectedEmail holds the fields of the denial notice.
type CertRejectedEmail struct {
	Namespace string
}

// ComposeTokenEmail renders the verification token message for one recipient.
func ComposeTokenEmail(to string, data TokenEmail) (Message, error) {
	textBody, err := renderText("token.txt.tmpl", data)
	if err != nil {
		return Message{}, err
	}
	var htmlBody strings.Builder
	if err := htmlTemplates.ExecuteTemplate(&htmlBody, "token.html.tmpl", data); err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  "NDN testbed certificate request",
		TextBody: textBody,
		HTMLBody: htmlBody.String(),
	}, nil
}

// ComposeOperatorNotifyEmail renders the pending-request alert for the site's
// operator addresses.
func ComposeOperatorNotifyEmail(to []string, data OperatorNotifyEmail) (Message, error) {
	textBody, err := renderText("operator_notify.txt.tmpl", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       to,
		Subject:  "NDN certificate request pending for " + data.Email,
		TextBody: textBody,
	}, nil
}

// ComposeCertIssuedEmail renders the issuance confirmation for one recipient.
func ComposeCertIssuedEmail(to string, data CertIssuedEmail) (Message, error) {
	textBody, err := renderText("cert_issued.txt.tmpl", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  "Your NDN testbed certificate has been issued",
		TextBody: textBody,
	}, nil
}

// ComposeCertRejectedEmail renders the denial notice for one recipient.
func ComposeCertRejectedEmail(to string, data CertRejectedEmail) (Message, error) {
	textBody, err := renderText("cert_rejected.txt.tmpl", data)
	if err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  "Your NDN testbed certificate request was not approved",
		TextBody: textBody,
	}, nil
}

func renderText(name string, data any) (string, error) {
	var b strings.Builder
	if err := textTemplates.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
