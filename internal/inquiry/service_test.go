package inquiry

import (
	"context"
	"fmt"
	"testing"

	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/metrics"
	"github.com/dakshina-arts/boxoffice/internal/providers/email"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorderMail struct {
	subject string
	body    string
	to      email.Recipient
	replyTo *email.Recipient
	sends   int
	err     error
}

func (m *recorderMail) SendTemplate(ctx context.Context, to email.Recipient, templateID int64, params map[string]any, attachments []email.Attachment) error {
	return nil
}

func (m *recorderMail) Send(ctx context.Context, subject, htmlBody string, to email.Recipient, replyTo *email.Recipient) error {
	if m.err != nil {
		return m.err
	}
	m.subject = subject
	m.body = htmlBody
	m.to = to
	m.replyTo = replyTo
	m.sends++
	return nil
}

func newService(mail *recorderMail) Service {
	cfg := config.Config{
		Inquiry: config.InquiryConfig{InboxEmail: "info@dakshina-arts.test", InboxName: "Box Office"},
	}
	return NewService(cfg, mail, metrics.New(prometheus.NewRegistry()), zap.NewNop())
}

func TestSendRelaysToInbox(t *testing.T) {
	mail := &recorderMail{}
	svc := newService(mail)

	err := svc.Send(context.Background(), Request{
		Name:        "Priya",
		Email:       "priya@example.com",
		Phone:       "9876543210",
		CountryCode: "+91",
		Message:     "Do you run beginner classes?",
	})
	require.NoError(t, err)
	require.Equal(t, 1, mail.sends)

	assert.Equal(t, "info@dakshina-arts.test", mail.to.Email)
	require.NotNil(t, mail.replyTo)
	assert.Equal(t, "priya@example.com", mail.replyTo.Email)
	assert.Contains(t, mail.subject, "Priya")
	assert.Contains(t, mail.body, "Do you run beginner classes?")
	assert.Contains(t, mail.body, "+91 9876543210")
}

func TestSendEscapesMarkup(t *testing.T) {
	mail := &recorderMail{}
	svc := newService(mail)

	err := svc.Send(context.Background(), Request{
		Name:    "<script>x</script>",
		Email:   "x@example.com",
		Message: "<b>hi</b>",
	})
	require.NoError(t, err)
	assert.NotContains(t, mail.body, "<script>")
	assert.NotContains(t, mail.body, "<b>hi</b>")
}

func TestSendRejectsIncompleteRequests(t *testing.T) {
	mail := &recorderMail{}
	svc := newService(mail)

	cases := []Request{
		{Email: "x@example.com", Message: "hi"},
		{Name: "X", Message: "hi"},
		{Name: "X", Email: "x@example.com"},
		{Name: "X", Email: "not-an-email", Message: "hi"},
		{Name: "  ", Email: "x@example.com", Message: "hi"},
	}
	for i, req := range cases {
		err := svc.Send(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInquiry, "case %d", i)
	}
	assert.Zero(t, mail.sends)
}

func TestSendSurfacesProviderFailure(t *testing.T) {
	mail := &recorderMail{err: fmt.Errorf("brevo 503")}
	svc := newService(mail)

	err := svc.Send(context.Background(), Request{
		Name: "X", Email: "x@example.com", Message: "hi",
	})
	assert.Error(t, err)
}
