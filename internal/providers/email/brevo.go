package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	APIKey      string
	BaseURL     string
	SenderEmail string
	SenderName  string
}

// BrevoProvider sends transactional mail through the Brevo SMTP API.
type BrevoProvider struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

func NewBrevo(cfg Config, log *zap.Logger) *BrevoProvider {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.brevo.com/v3"
	}
	cfg.BaseURL = base

	return &BrevoProvider{
		cfg:  cfg,
		http: &http.Client{Timeout: 15 * time.Second},
		log:  log.Named("providers.email"),
	}
}

type brevoAttachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type brevoMessage struct {
	Sender      Recipient         `json:"sender"`
	To          []Recipient       `json:"to"`
	ReplyTo     *Recipient        `json:"replyTo,omitempty"`
	TemplateID  int64             `json:"templateId,omitempty"`
	Params      map[string]any    `json:"params,omitempty"`
	Subject     string            `json:"subject,omitempty"`
	HTMLContent string            `json:"htmlContent,omitempty"`
	Attachment  []brevoAttachment `json:"attachment,omitempty"`
}

func (p *BrevoProvider) SendTemplate(ctx context.Context, to Recipient, templateID int64, params map[string]any, attachments []Attachment) error {
	msg := brevoMessage{
		Sender:     Recipient{Email: p.cfg.SenderEmail, Name: p.cfg.SenderName},
		To:         []Recipient{to},
		TemplateID: templateID,
		Params:     params,
	}
	for _, a := range attachments {
		msg.Attachment = append(msg.Attachment, brevoAttachment{
			Name:    a.Name,
			Content: base64.StdEncoding.EncodeToString(a.Content),
		})
	}
	return p.send(ctx, msg)
}

func (p *BrevoProvider) Send(ctx context.Context, subject, htmlBody string, to Recipient, replyTo *Recipient) error {
	return p.send(ctx, brevoMessage{
		Sender:      Recipient{Email: p.cfg.SenderEmail, Name: p.cfg.SenderName},
		To:          []Recipient{to},
		ReplyTo:     replyTo,
		Subject:     subject,
		HTMLContent: htmlBody,
	})
}

func (p *BrevoProvider) send(ctx context.Context, msg brevoMessage) error {
	encoded, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/smtp/email", bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.cfg.APIKey)

	resp, err := p.http.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
