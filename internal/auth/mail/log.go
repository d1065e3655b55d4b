package mail

import (
	"context"
	"log/slog"
)

// LogMailer writes mail to the log instead of the network. Used in dev when
// no SMTP host is configured so login codes stay visible to the operator.
type LogMailer struct {
	Logger *slog.Logger
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.Logger.Info("mail delivery disabled, logging instead",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
