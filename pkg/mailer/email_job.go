package mailer

import "context"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects one of the known kinds ("welcome", "password_reset");
// Data supplies its parameters.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// Sender is the narrow notification collaborator the credential-lifecycle
// operations talk to. Delivery failure is reported back synchronously.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}
