package mailer

import (
	"context"
	"log/slog"
)

// Log writes messages to the logger instead of a relay. Used when no SMTP host
// is configured.
type Log struct {
	L *slog.Logger
}

func (l Log) Send(ctx context.Context, m Message) error {
	if len(m.recipients()) == 0 {
		return ErrNoRecipient
	}
	l.L.InfoContext(ctx, "mail_not_sent",
		slog.Any("to", m.To),
		slog.String("subject", m.Subject),
		slog.Int("html_bytes", len(m.HTMLBody)),
	)
	return nil
}
