package domain

import (
	"context"
	"errors"
)

// Note keys smuggled through the gateway order. The gateway is the only party
// guaranteed to return this context unmodified at verification time.
const (
	NoteType     = "type"
	NoteItemCode = "eventCode"
	NoteTierName = "tierName"
	NoteQuantity = "quantity"
	NoteUserName = "userName"
	NoteQuestion = "userQuestion"
)

// GatewayOrder is the gateway's representation of an intent to pay.
type GatewayOrder struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes"`
}

// GatewayPayment carries the authoritative facts about a captured payment.
// Buyer email is taken from here, never from client input.
type GatewayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method"`
	Email    string `json:"email"`
	Contact  string `json:"contact"`
}

type CreateOrderParams struct {
	Amount   int64
	Currency string
	Receipt  string
	Notes    map[string]string
}

var (
	ErrGateway          = errors.New("gateway_error")
	ErrInvalidSignature = errors.New("invalid_signature")
)

// Gateway is the payment platform the order pipeline drives.
type Gateway interface {
	CreateOrder(ctx context.Context, params CreateOrderParams) (*GatewayOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*GatewayOrder, error)
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)

	// VerifySignature reports whether the client-reported confirmation was
	// produced by the gateway. A mismatch is an expected outcome, not an error.
	VerifySignature(orderID, paymentID, signature string) bool
}
