package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"

	"hebron-schedule/pkg/sl"
)

type ResendSender struct {
	client *resend.Client
	from   string
	log    *slog.Logger
}

func NewResendSender(log *slog.Logger, apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
		log:    log,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	const op = "mailer.ResendSender.Send"

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		s.log.Error("Failed to send email", sl.Err(err), slog.String("to", msg.To))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("Email sent",
		slog.String("message_id", sent.Id),
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)

	return nil
}
