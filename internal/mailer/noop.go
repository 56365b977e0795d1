package mailer

import (
	"context"
	"log/slog"
)

// NoopSender is used when no Resend API key is configured.
type NoopSender struct {
	log *slog.Logger
}

func NewNoopSender(log *slog.Logger) *NoopSender {
	return &NoopSender{log: log}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Email sending disabled, skipping",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)

	return nil
}
