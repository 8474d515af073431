// Package mailer delivers notification mail through an SMTP relay or, in
// development, to the log.
package mailer

import (
	"context"

	"github.com/dmitrijs2005/streamdesk/internal/logging"
)

// Mail is a single-recipient message. HTML is optional.
type Mail struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Sender delivers one Mail.
type Sender interface {
	Send(ctx context.Context, m Mail) error
}

// LogSender records mail in the log instead of delivering it.
type LogSender struct {
	log logging.Logger
}

func NewLogSender(log logging.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, m Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info(ctx, "mail not delivered, no smtp relay configured",
		"from", m.From, "to", m.To, "subject", m.Subject, "text_bytes", len(m.Text), "html_bytes", len(m.HTML))
	return nil
}
