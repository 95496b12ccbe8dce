package notification

import (
	"context"
	"fmt"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/dakshina-arts/boxoffice/internal/clock"
	"github.com/dakshina-arts/boxoffice/internal/config"
	"github.com/dakshina-arts/boxoffice/internal/providers/email"
	"github.com/dakshina-arts/boxoffice/internal/providers/pdf"
	"go.uber.org/zap"
)

// WatchLinkParam is a link already provisioned for the buyer.
type WatchLinkParam struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// OrderConfirmation carries everything the confirmation email needs.
type OrderConfirmation struct {
	BuyerEmail string
	BuyerName  string
	Item       catalogdomain.BookableItem
	Tier       catalogdomain.TicketTier
	Quantity   int
	Amount     int64
	Currency   string
	PaymentID  string
	WatchLinks []WatchLinkParam
}

// AccessClassForTier classifies how a tier is delivered. Zoom wins over
// online when a tier carries both flags.
func AccessClassForTier(tier catalogdomain.TicketTier) AccessClass {
	switch {
	case tier.IsZoomAccess:
		return AccessZoom
	case tier.IsOnlineAccess:
		return AccessOnline
	default:
		return AccessPhysical
	}
}

// Notifier composes and sends buyer-facing order mail.
type Notifier struct {
	cfg       config.Config
	templates *TemplateHolder
	mail      email.Provider
	receipts  pdf.Provider
	clock     clock.Clock
	log       *zap.Logger
}

func NewNotifier(cfg config.Config, templates *TemplateHolder, mail email.Provider, receipts pdf.Provider, clk clock.Clock, log *zap.Logger) *Notifier {
	return &Notifier{
		cfg:       cfg,
		templates: templates,
		mail:      mail,
		receipts:  receipts,
		clock:     clk,
		log:       log.Named("notification"),
	}
}

// SendOrderConfirmation sends the template email for a recorded order, with a
// PDF receipt attached when generation succeeds. A failed attachment never
// blocks the mail.
func (n *Notifier) SendOrderConfirmation(ctx context.Context, oc OrderConfirmation) error {
	access := AccessClassForTier(oc.Tier)
	templateID := n.templates.Resolve(string(oc.Item.Type), access)

	links := make([]map[string]string, 0, len(oc.WatchLinks))
	for _, l := range oc.WatchLinks {
		links = append(links, map[string]string{"label": l.Label, "url": l.URL})
	}

	params := map[string]any{
		"eventName": oc.Item.Title(),
		"eventDate": oc.Item.ScheduleLabel(),
		"venue":     oc.Item.Venue(),
		"tierName":  oc.Tier.Name,
		"quantity":  oc.Quantity,
		"amount":    formatAmount(oc.Amount, oc.Currency),
		"paymentId": oc.PaymentID,
	}
	if oc.BuyerName != "" {
		params["userName"] = oc.BuyerName
	}
	if len(links) > 0 {
		params["watchLinks"] = links
	}

	var attachments []email.Attachment
	receipt, err := n.receipts.GenerateTicketReceipt(ctx, pdf.TicketReceiptData{
		CompanyName: n.cfg.AppName,
		ItemTitle:   oc.Item.Title(),
		Schedule:    oc.Item.ScheduleLabel(),
		Venue:       oc.Item.Venue(),
		TierName:    oc.Tier.Name,
		Quantity:    oc.Quantity,
		AmountLabel: formatAmount(oc.Amount, oc.Currency),
		PaymentID:   oc.PaymentID,
		BuyerEmail:  oc.BuyerEmail,
		IssuedOn:    n.clock.Now().Format("Jan 2, 2006"),
	})
	if err != nil {
		n.log.Warn("receipt generation failed, sending without attachment",
			zap.String("payment_id", oc.PaymentID),
			zap.Error(err),
		)
	} else {
		attachments = append(attachments, email.Attachment{
			Name:    fmt.Sprintf("ticket-%s.pdf", oc.PaymentID),
			Content: receipt,
		})
	}

	to := email.Recipient{Email: oc.BuyerEmail, Name: oc.BuyerName}
	if err := n.mail.SendTemplate(ctx, to, templateID, params, attachments); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}

	n.log.Info("order confirmation sent",
		zap.String("payment_id", oc.PaymentID),
		zap.Int64("template_id", templateID),
		zap.String("access", string(access)),
	)
	return nil
}

func formatAmount(subunits int64, currency string) string {
	return fmt.Sprintf("%s %d.%02d", currency, subunits/100, subunits%100)
}
