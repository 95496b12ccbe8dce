package email

import "context"

type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Attachment struct {
	Name    string
	Content []byte
}

// Provider sends transactional mail. Callers past the point of committed
// order state log failures and move on; nothing here rolls a purchase back.
type Provider interface {
	// SendTemplate dispatches a template-based message with a flat parameter bag.
	SendTemplate(ctx context.Context, to Recipient, templateID int64, params map[string]any, attachments []Attachment) error

	// Send dispatches an ad hoc subject/HTML message, optionally with a
	// reply-to set to the person the message is about.
	Send(ctx context.Context, subject, htmlBody string, to Recipient, replyTo *Recipient) error
}

type NoOpProvider struct{}

func (NoOpProvider) SendTemplate(ctx context.Context, to Recipient, templateID int64, params map[string]any, attachments []Attachment) error {
	return nil
}

func (NoOpProvider) Send(ctx context.Context, subject, htmlBody string, to Recipient, replyTo *Recipient) error {
	return nil
}
