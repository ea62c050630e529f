// Package mail provides the Mailer implementation used by the worker.
package mail

import (
	"context"
	"log/slog"

	"bazaar/config"
	"bazaar/internal/domain/service"
)

// logMailer writes outbound mail to the structured log instead of an SMTP
// relay. Actual delivery happens outside this system; the worker's contract
// ends at handing a fully rendered message to a Mailer.
type logMailer struct {
	from   string
	logger *slog.Logger
}

// NewLogMailer is the constructor for logMailer.
func NewLogMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	from := "noreply@localhost"
	if cfg.Mail != nil && cfg.Mail.From != "" {
		from = cfg.Mail.From
	}

	return &logMailer{from: from, logger: logger}
}

// Send logs one rendered message.
func (m *logMailer) Send(ctx context.Context, mail *service.Mail) error {
	m.logger.InfoContext(ctx, "Outbound mail",
		slog.String("from", m.from),
		slog.String("to", mail.To),
		slog.String("subject", mail.Subject),
		slog.String("body", mail.Body),
	)

	return nil
}
