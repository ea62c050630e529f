package service

import "context"

// Mail is one outbound message, already rendered.
type Mail struct {
	To      string // Recipient address.
	Subject string // Message subject line.
	Body    string // Plain text body.
}

// Mailer defines the interface for delivering rendered mail.
// The worker depends on this interface, not on a concrete transport.
type Mailer interface {
	// Send delivers one message.
	Send(ctx context.Context, mail *Mail) error
}
