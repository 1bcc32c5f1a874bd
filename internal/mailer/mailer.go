// Package mailer sends transactional mail over SMTP.
package mailer

import "context"

type Sender interface {
	Send(ctx context.Context, m Message) error
}

type Message struct {
	FromName string
	From     string // falls back to the mailer's configured sender

	To  []string
	Bcc []string

	Subject  string
	TextBody string
	HTMLBody string

	Headers map[string]string
}

func (m Message) recipients() []string {
	out := make([]string, 0, len(m.To)+len(m.Bcc))
	out = append(out, m.To...)
	return append(out, m.Bcc...)
}
