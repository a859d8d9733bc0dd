package services

import (
	"fmt"
	"html"

	"talenthub-api/config"
)

// Notifier mails the configured admin address when a submission lands.
// Delivery is best effort: the pipeline logs failures and never surfaces
// them to the submitter.
type Notifier struct {
	mailer *config.Mailer
	to     string
}

// NewNotifier returns nil when mail is not configured; a nil Notifier is
// a valid no-op.
func NewNotifier(cfg *config.Config) *Notifier {
	if !cfg.MailEnabled() {
		return nil
	}
	return &Notifier{mailer: config.NewMailer(cfg), to: cfg.NotifyTo}
}

// SubmissionReceived sends a short heads-up about one new submission.
func (n *Notifier) SubmissionReceived(kind SubmissionKind, fullName, email string) error {
	if n == nil {
		return nil
	}

	subject := "New job application"
	if kind == KindCollaboration {
		subject = "New collaboration commitment"
	}

	body := fmt.Sprintf("<p>%s (%s) just submitted via the talent hub.</p>",
		html.EscapeString(fullName), html.EscapeString(email))

	return n.mailer.Send([]string{n.to}, subject, body)
}
