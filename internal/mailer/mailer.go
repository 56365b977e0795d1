package mailer

import "context"

type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers transactional mail. Implementations log their own
// failures; callers fire-and-forget.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
