package inquiry

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/metrics"
	"github.com/dakshina-arts/boxoffice/internal/providers/email"
	"go.uber.org/zap"
)

var ErrInvalidInquiry = errors.New("invalid_inquiry")

// Request is a visitor's contact-form submission.
type Request struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	Message     string `json:"message" binding:"required"`
}

// Service relays inquiries to the company inbox with reply-to pointing back
// at the visitor.
type Service interface {
	Send(ctx context.Context, req Request) error
}

type service struct {
	cfg     config.Config
	mail    email.Provider
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewService(cfg config.Config, mail email.Provider, m *metrics.Metrics, log *zap.Logger) Service {
	return &service{
		cfg:     cfg,
		mail:    mail,
		metrics: m,
		log:     log.Named("inquiry.service"),
	}
}

func (s *service) Send(ctx context.Context, req Request) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Email == "" || req.Message == "" || !strings.Contains(req.Email, "@") {
		return ErrInvalidInquiry
	}

	phone := strings.TrimSpace(req.CountryCode + " " + req.Phone)

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>New inquiry from %s</h3>", html.EscapeString(req.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(req.Email))
	if phone != "" {
		fmt.Fprintf(&b, "<p><strong>Phone:</strong> %s</p>", html.EscapeString(phone))
	}
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(req.Message))

	err := s.mail.Send(ctx,
		fmt.Sprintf("Website inquiry from %s", req.Name),
		b.String(),
		email.Recipient{Email: s.cfg.Inquiry.InboxEmail, Name: s.cfg.Inquiry.InboxName},
		&email.Recipient{Email: req.Email, Name: req.Name},
	)
	if err != nil {
		s.metrics.EmailFailed("inquiry")
		s.log.Error("inquiry relay failed", zap.String("from", req.Email), zap.Error(err))
		return err
	}

	s.metrics.EmailSent("inquiry")
	s.log.Info("inquiry relayed", zap.String("from", req.Email))
	return nil
}
