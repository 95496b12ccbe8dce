package pdf

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// TicketReceiptData carries everything printed on a purchase receipt.
type TicketReceiptData struct {
	CompanyName string
	ItemTitle   string
	Schedule    string
	Venue       string
	TierName    string
	Quantity    int
	AmountLabel string
	PaymentID   string
	BuyerEmail  string
	IssuedOn    string
}

type Provider interface {
	GenerateTicketReceipt(ctx context.Context, data TicketReceiptData) ([]byte, error)
}

type NoOpProvider struct{}

func (NoOpProvider) GenerateTicketReceipt(ctx context.Context, data TicketReceiptData) ([]byte, error) {
	return nil, nil
}

type PDFProvider struct{}

func New() *PDFProvider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateTicketReceipt(ctx context.Context, data TicketReceiptData) ([]byte, error) {
	_ = ctx

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(20,
		text.NewCol(12, data.CompanyName, props.Text{
			Size:  18,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
	)
	m.AddRow(12,
		text.NewCol(12, "Ticket Receipt", props.Text{
			Size:  13,
			Align: align.Left,
		}),
	)
	m.AddRow(4, line.NewCol(12))

	m.AddRow(30,
		col.New(7).Add(
			text.New(data.ItemTitle, props.Text{Style: fontstyle.Bold, Size: 12}),
			text.New(data.Schedule, props.Text{Top: 7}),
			text.New(data.Venue, props.Text{Top: 13}),
		),
		col.New(5).Add(
			text.New("Issued: "+data.IssuedOn, props.Text{Align: align.Right}),
			text.New("Payment: "+data.PaymentID, props.Text{Top: 6, Align: align.Right}),
		),
	)

	m.AddRow(20,
		col.New(6).Add(
			text.New("Tier", props.Text{Style: fontstyle.Bold}),
			text.New(data.TierName, props.Text{Top: 6}),
		),
		col.New(3).Add(
			text.New("Quantity", props.Text{Style: fontstyle.Bold}),
			text.New(fmt.Sprintf("%d", data.Quantity), props.Text{Top: 6}),
		),
		col.New(3).Add(
			text.New("Amount", props.Text{Style: fontstyle.Bold, Align: align.Right}),
			text.New(data.AmountLabel, props.Text{Top: 6, Align: align.Right}),
		),
	)

	m.AddRow(4, line.NewCol(12))
	m.AddRow(12,
		text.NewCol(12, "Issued to "+data.BuyerEmail+". Present this receipt at the venue if asked.", props.Text{
			Size: 9,
		}),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate receipt pdf: %w", err)
	}
	return doc.GetBytes(), nil
}
