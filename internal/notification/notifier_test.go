package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/dakshina-arts/boxoffice/internal/clock"
	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/providers/email"
	"github.com/dakshina-arts/boxoffice/internal/providers/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recorderMail struct {
	to          email.Recipient
	templateID  int64
	params      map[string]any
	attachments []email.Attachment
}

func (m *recorderMail) SendTemplate(ctx context.Context, to email.Recipient, templateID int64, params map[string]any, attachments []email.Attachment) error {
	m.to = to
	m.templateID = templateID
	m.params = params
	m.attachments = attachments
	return nil
}

func (m *recorderMail) Send(ctx context.Context, subject, htmlBody string, to email.Recipient, replyTo *email.Recipient) error {
	return nil
}

type recorderReceipts struct {
	data pdf.TicketReceiptData
	err  error
}

func (r *recorderReceipts) GenerateTicketReceipt(ctx context.Context, data pdf.TicketReceiptData) ([]byte, error) {
	r.data = data
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-stub"), nil
}

func confirmationFixture() OrderConfirmation {
	return OrderConfirmation{
		BuyerEmail: "buyer@example.com",
		BuyerName:  "Meera",
		Item: catalogdomain.BookableItem{
			Type: catalogdomain.ItemTypeEvent,
			Event: &catalogdomain.Event{
				UID:   "evt-varnam-premiere",
				Venue: "Music Academy",
			},
		},
		Tier:      catalogdomain.TicketTier{Name: "Online", IsOnlineAccess: true},
		Quantity:  2,
		Amount:    100000,
		Currency:  "INR",
		PaymentID: "pay_receipt",
	}
}

func TestSendOrderConfirmationReceipt(t *testing.T) {
	holder, err := NewTemplateHolder(zap.NewNop())
	require.NoError(t, err)

	mail := &recorderMail{}
	receipts := &recorderReceipts{}
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))
	cfg := config.Config{AppName: "boxoffice"}

	n := NewNotifier(cfg, holder, mail, receipts, clk, zap.NewNop())
	require.NoError(t, n.SendOrderConfirmation(context.Background(), confirmationFixture()))

	assert.Equal(t, "Mar 1, 2026", receipts.data.IssuedOn)
	assert.Equal(t, "boxoffice", receipts.data.CompanyName)
	assert.Equal(t, "pay_receipt", receipts.data.PaymentID)
	assert.Equal(t, "INR 1000.00", receipts.data.AmountLabel)

	require.Len(t, mail.attachments, 1)
	assert.Equal(t, "ticket-pay_receipt.pdf", mail.attachments[0].Name)
	assert.Equal(t, int64(2), mail.templateID)
}

func TestSendOrderConfirmationWithoutReceiptOnGenerationFailure(t *testing.T) {
	holder, err := NewTemplateHolder(zap.NewNop())
	require.NoError(t, err)

	mail := &recorderMail{}
	receipts := &recorderReceipts{err: errors.New("render failed")}
	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC))

	n := NewNotifier(config.Config{AppName: "boxoffice"}, holder, mail, receipts, clk, zap.NewNop())
	require.NoError(t, n.SendOrderConfirmation(context.Background(), confirmationFixture()))

	assert.Empty(t, mail.attachments)
	assert.Equal(t, "buyer@example.com", mail.to.Email)
}
