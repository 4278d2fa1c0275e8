package mailer

import "context"

// Message is a single transactional email.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Sender delivers transactional email. Implementations must be safe for
// concurrent use.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Noop is a Sender that silently discards every message. Used when email
// delivery is disabled in configuration.
type Noop struct{}

func (Noop) Send(ctx context.Context, msg *Message) error { return nil }
